// Package account fetches exchange account snapshots and values them in
// USD: spot, Simple Earn, USDT-M futures and COIN-M futures.
package account

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// DefaultDustThreshold positions valued below this (in USD) are filtered
// out of spot and earn reports into a separate dust total.
var DefaultDustThreshold = decimal.NewFromFloat(0.01)

type exchangeAccount interface {
	SpotBalances(ctx context.Context) ([]domain.RawSpotBalance, error)
	FlexibleEarnPositions(ctx context.Context) ([]domain.RawEarnPosition, error)
	LockedEarnPositions(ctx context.Context) ([]domain.RawEarnPosition, error)
	LinearFuturesAssets(ctx context.Context) ([]domain.RawFuturesAsset, error)
	InverseFuturesAssets(ctx context.Context) ([]domain.RawFuturesAsset, error)
}

type usdResolver interface {
	UsdPrice(ctx context.Context, symbol string) (decimal.Decimal, bool)
}

type historyAppender interface {
	Append(point domain.HistoryPoint) error
}

// Service values account holdings in USD. One Service instance spans one
// report run; it shares the resolver's price cache across all fetches.
type Service struct {
	client        exchangeAccount
	resolver      usdResolver
	history       historyAppender
	logger        *zap.Logger
	policy        retry.Policy
	dustThreshold decimal.Decimal
}

// NewService creates the account service. history may be nil when the
// run should not record the grand total.
func NewService(client exchangeAccount, resolver usdResolver, history historyAppender,
	logger *zap.Logger, policy retry.Policy, dustThreshold decimal.Decimal) *Service {

	if dustThreshold.LessThanOrEqual(decimal.Zero) {
		dustThreshold = DefaultDustThreshold
	}
	return &Service{
		client:        client,
		resolver:      resolver,
		history:       history,
		logger:        logger,
		policy:        policy,
		dustThreshold: dustThreshold,
	}
}
