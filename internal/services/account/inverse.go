package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// Admits near-zero wallet balances that still carry meaningful PnL.
var inverseEpsilon = decimal.New(1, -9)

// InverseFutures fetches the COIN-M futures wallet: one position per
// margin asset, net quantity possibly negative. Included when the
// magnitude of the wallet balance, the PnL or their sum exceeds epsilon.
// Never dust-filtered: losses and gains in contract-margin assets must
// stay visible.
func (s *Service) InverseFutures(ctx context.Context) (domain.InverseSnapshot, error) {
	assets, err := retry.Do(ctx, s.logger, s.policy, "coin-m futures account", s.client.InverseFuturesAssets)
	if err != nil {
		return domain.InverseSnapshot{}, errors.Wrap(err, "failed to fetch coin-m futures account")
	}

	var snapshot domain.InverseSnapshot
	for _, asset := range assets {
		total := asset.WalletBalance.Add(asset.UnrealizedPnl)
		if asset.WalletBalance.Abs().LessThanOrEqual(inverseEpsilon) &&
			asset.UnrealizedPnl.Abs().LessThanOrEqual(inverseEpsilon) &&
			total.Abs().LessThanOrEqual(inverseEpsilon) {
			continue
		}

		position := domain.InversePosition{
			Asset:         asset.Asset,
			WalletBalance: asset.WalletBalance,
			UnrealizedPnl: asset.UnrealizedPnl,
			Total:         total,
		}
		if price, ok := s.resolver.UsdPrice(ctx, asset.Asset); ok {
			value := total.Mul(price)
			position.UnitPrice = &price
			position.UsdValue = &value
			snapshot.TotalUsd = snapshot.TotalUsd.Add(value)
		}

		snapshot.Positions = append(snapshot.Positions, position)
	}
	return snapshot, nil
}
