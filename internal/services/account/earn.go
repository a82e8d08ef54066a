package account

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// Earn fetches flexible and locked Simple Earn positions and values
// them. Positions need a present asset identifier and a positive amount;
// dust partitioning applies the same way as for spot.
func (s *Service) Earn(ctx context.Context) (domain.EarnSnapshot, error) {
	flexible, err := retry.Do(ctx, s.logger, s.policy, "earn flexible positions", s.client.FlexibleEarnPositions)
	if err != nil {
		return domain.EarnSnapshot{}, errors.Wrap(err, "failed to fetch flexible earn positions")
	}
	locked, err := retry.Do(ctx, s.logger, s.policy, "earn locked positions", s.client.LockedEarnPositions)
	if err != nil {
		return domain.EarnSnapshot{}, errors.Wrap(err, "failed to fetch locked earn positions")
	}

	var snapshot domain.EarnSnapshot
	s.appendEarnPositions(ctx, &snapshot, flexible, domain.EarnProductFlexible)
	s.appendEarnPositions(ctx, &snapshot, locked, domain.EarnProductLocked)
	return snapshot, nil
}

func (s *Service) appendEarnPositions(ctx context.Context, snapshot *domain.EarnSnapshot,
	positions []domain.RawEarnPosition, product string) {

	for _, position := range positions {
		if position.Asset == "" || !position.Amount.IsPositive() {
			continue
		}

		value, dust := s.valueAndClassify(ctx, position.Asset, position.Amount)
		if dust {
			snapshot.DustUsd = snapshot.DustUsd.Add(*value)
			continue
		}
		if value != nil {
			snapshot.TotalUsd = snapshot.TotalUsd.Add(*value)
		}

		snapshot.Positions = append(snapshot.Positions, domain.EarnPosition{
			Asset:    position.Asset,
			Product:  product,
			Amount:   position.Amount,
			EndDate:  position.EndDate,
			UsdValue: value,
		})
	}
}
