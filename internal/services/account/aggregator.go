package account

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

// Full aggregates all four account types into one snapshot. The fetchers
// are independent and run concurrently; a failing account type degrades
// to an empty section and marks the snapshot incomplete instead of
// aborting the run. The grand total of a complete snapshot is appended
// to the balance history.
func (s *Service) Full(ctx context.Context) domain.FullSnapshot {
	var (
		spot       domain.SpotSnapshot
		earn       domain.EarnSnapshot
		futures    domain.FuturesSnapshot
		inverse    domain.InverseSnapshot
		spotErr    error
		earnErr    error
		futuresErr error
		inverseErr error
	)

	g := new(errgroup.Group)
	g.Go(func() error { spot, spotErr = s.Spot(ctx); return nil })
	g.Go(func() error { earn, earnErr = s.Earn(ctx); return nil })
	g.Go(func() error { futures, futuresErr = s.LinearFutures(ctx); return nil })
	g.Go(func() error { inverse, inverseErr = s.InverseFutures(ctx); return nil })
	_ = g.Wait()

	snapshot := domain.FullSnapshot{Timestamp: time.Now(), Complete: true}
	for name, err := range map[string]error{
		"spot":           spotErr,
		"earn":           earnErr,
		"usdt-m futures": futuresErr,
		"coin-m futures": inverseErr,
	} {
		if err != nil {
			s.logger.Error("account type unavailable, reporting empty section",
				zap.String("account", name), zap.Error(err))
			snapshot.Complete = false
		}
	}

	snapshot.Spot = spot
	snapshot.Earn = earn
	snapshot.Futures = futures
	snapshot.Inverse = inverse
	snapshot.TotalUsd = spot.TotalUsd.
		Add(earn.TotalUsd).
		Add(futures.TotalUsd).
		Add(inverse.TotalUsd)
	snapshot.DustUsd = spot.DustUsd.Add(earn.DustUsd)

	s.recordHistory(snapshot)
	return snapshot
}

func (s *Service) recordHistory(snapshot domain.FullSnapshot) {
	if s.history == nil {
		return
	}
	if !snapshot.Complete {
		s.logger.Warn("skipping balance history append, snapshot is incomplete")
		return
	}

	point := domain.HistoryPoint{Timestamp: snapshot.Timestamp, TotalUsd: snapshot.TotalUsd}
	if err := s.history.Append(point); err != nil {
		s.logger.Error("failed to append balance history", zap.Error(err))
	}
}
