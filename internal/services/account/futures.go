package account

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// The USDT-M wallet is margined in a single quote asset.
const linearQuoteAsset = "USDT"

// LinearFutures fetches the USDT-M futures wallet. Only the USDT
// position matters: wallet balance plus unrealized PnL, taken at face
// value as USD. No dust filtering applies to futures wallets.
func (s *Service) LinearFutures(ctx context.Context) (domain.FuturesSnapshot, error) {
	assets, err := retry.Do(ctx, s.logger, s.policy, "usdt-m futures account", s.client.LinearFuturesAssets)
	if err != nil {
		return domain.FuturesSnapshot{}, errors.Wrap(err, "failed to fetch usdt-m futures account")
	}

	var snapshot domain.FuturesSnapshot
	for _, asset := range assets {
		if asset.Asset != linearQuoteAsset {
			continue
		}
		total := asset.WalletBalance.Add(asset.UnrealizedPnl)
		snapshot.Position = &domain.FuturesPosition{
			Asset:         asset.Asset,
			WalletBalance: asset.WalletBalance,
			UnrealizedPnl: asset.UnrealizedPnl,
			Total:         total,
		}
		snapshot.TotalUsd = total
		break
	}
	return snapshot, nil
}
