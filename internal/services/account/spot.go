package account

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// Spot fetches the spot wallet and values every asset with a positive
// total (free + locked). Positions below the dust threshold are dropped
// from the list and accumulated into DustUsd.
func (s *Service) Spot(ctx context.Context) (domain.SpotSnapshot, error) {
	balances, err := retry.Do(ctx, s.logger, s.policy, "spot account", s.client.SpotBalances)
	if err != nil {
		return domain.SpotSnapshot{}, errors.Wrap(err, "failed to fetch spot account")
	}

	var snapshot domain.SpotSnapshot
	for _, balance := range balances {
		total := balance.Free.Add(balance.Locked)
		if !total.IsPositive() {
			continue
		}

		value, dust := s.valueAndClassify(ctx, balance.Asset, total)
		if dust {
			snapshot.DustUsd = snapshot.DustUsd.Add(*value)
			continue
		}
		if value != nil {
			snapshot.TotalUsd = snapshot.TotalUsd.Add(*value)
		}

		snapshot.Positions = append(snapshot.Positions, domain.SpotPosition{
			Asset:    balance.Asset,
			Free:     balance.Free,
			Locked:   balance.Locked,
			Total:    total,
			UsdValue: value,
		})
	}
	return snapshot, nil
}
