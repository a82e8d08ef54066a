package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// fakeAccount serves canned responses for all five account endpoints.
type fakeAccount struct {
	spot       []domain.RawSpotBalance
	flexible   []domain.RawEarnPosition
	locked     []domain.RawEarnPosition
	linear     []domain.RawFuturesAsset
	inverse    []domain.RawFuturesAsset
	spotErr    error
	flexErr    error
	lockErr    error
	linearErr  error
	inverseErr error
}

func (f *fakeAccount) SpotBalances(context.Context) ([]domain.RawSpotBalance, error) {
	return f.spot, f.spotErr
}

func (f *fakeAccount) FlexibleEarnPositions(context.Context) ([]domain.RawEarnPosition, error) {
	return f.flexible, f.flexErr
}

func (f *fakeAccount) LockedEarnPositions(context.Context) ([]domain.RawEarnPosition, error) {
	return f.locked, f.lockErr
}

func (f *fakeAccount) LinearFuturesAssets(context.Context) ([]domain.RawFuturesAsset, error) {
	return f.linear, f.linearErr
}

func (f *fakeAccount) InverseFuturesAssets(context.Context) ([]domain.RawFuturesAsset, error) {
	return f.inverse, f.inverseErr
}

// fakeResolver prices assets from a fixed map; absent assets are
// unresolved. The map is never mutated, so concurrent reads are safe.
type fakeResolver struct {
	prices map[string]decimal.Decimal
}

func (f *fakeResolver) UsdPrice(_ context.Context, symbol string) (decimal.Decimal, bool) {
	price, ok := f.prices[symbol]
	return price, ok
}

type fakeHistory struct {
	mu     sync.Mutex
	points []domain.HistoryPoint
	err    error
}

func (f *fakeHistory) Append(point domain.HistoryPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, point)
	return nil
}

func (f *fakeHistory) appended() []domain.HistoryPoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.points
}

func testService(client exchangeAccount, resolver usdResolver, history historyAppender,
	dustThreshold decimal.Decimal) *Service {

	policy := retry.Policy{Attempts: 1, Delay: time.Millisecond}
	return NewService(client, resolver, history, zap.NewNop(), policy, dustThreshold)
}

func usdPrices() *fakeResolver {
	return &fakeResolver{prices: map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(60000),
		"ETH": decimal.NewFromInt(3000),
		"LTC": decimal.NewFromInt(100),
	}}
}

func TestService_Spot(t *testing.T) {
	ctx := context.Background()

	t.Run("values and partitions balances", func(t *testing.T) {
		client := &fakeAccount{spot: []domain.RawSpotBalance{
			{Asset: "BTC", Free: decimal.NewFromInt(1), Locked: decimal.NewFromFloat(0.5)},
			{Asset: "ETH", Free: decimal.NewFromInt(15)},
			{Asset: "LTC", Free: decimal.NewFromFloat(0.1)},
			{Asset: "XRP"}, // zero balance, skipped
		}}
		svc := testService(client, usdPrices(), nil, decimal.NewFromInt(15))

		snapshot, err := svc.Spot(ctx)
		require.NoError(t, err)

		// BTC 1.5 * 60000 + ETH 15 * 3000; LTC 0.1 * 100 = 10 goes to dust
		require.Len(t, snapshot.Positions, 2)
		assert.Equal(t, "BTC", snapshot.Positions[0].Asset)
		assert.True(t, snapshot.Positions[0].Total.Equal(decimal.NewFromFloat(1.5)))
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(135000)), "got %s", snapshot.TotalUsd)
		assert.True(t, snapshot.DustUsd.Equal(decimal.NewFromInt(10)), "got %s", snapshot.DustUsd)
	})

	t.Run("dust boundary is exclusive", func(t *testing.T) {
		client := &fakeAccount{spot: []domain.RawSpotBalance{
			{Asset: "LTC", Free: decimal.NewFromFloat(0.15)}, // exactly 15 USD
		}}
		svc := testService(client, usdPrices(), nil, decimal.NewFromInt(15))

		snapshot, err := svc.Spot(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 1)
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(15)))
		assert.True(t, snapshot.DustUsd.IsZero())
	})

	t.Run("unresolved price is reported, never dust", func(t *testing.T) {
		client := &fakeAccount{spot: []domain.RawSpotBalance{
			{Asset: "OBSCURE", Free: decimal.NewFromFloat(0.0001)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.NewFromInt(15))

		snapshot, err := svc.Spot(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 1)
		assert.Nil(t, snapshot.Positions[0].UsdValue)
		assert.True(t, snapshot.TotalUsd.IsZero())
		assert.True(t, snapshot.DustUsd.IsZero())
	})

	t.Run("fetch failure is propagated", func(t *testing.T) {
		client := &fakeAccount{spotErr: errors.New("api down")}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		_, err := svc.Spot(ctx)
		assert.Error(t, err)
	})
}

func TestService_Earn(t *testing.T) {
	ctx := context.Background()
	endDate := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("labels products and keeps end dates", func(t *testing.T) {
		client := &fakeAccount{
			flexible: []domain.RawEarnPosition{
				{Asset: "ETH", Amount: decimal.NewFromInt(2)},
			},
			locked: []domain.RawEarnPosition{
				{Asset: "BTC", Amount: decimal.NewFromInt(1), EndDate: &endDate},
			},
		}
		svc := testService(client, usdPrices(), nil, decimal.NewFromFloat(0.01))

		snapshot, err := svc.Earn(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 2)

		assert.Equal(t, domain.EarnProductFlexible, snapshot.Positions[0].Product)
		assert.Nil(t, snapshot.Positions[0].EndDate)
		assert.Equal(t, domain.EarnProductLocked, snapshot.Positions[1].Product)
		require.NotNil(t, snapshot.Positions[1].EndDate)
		assert.True(t, endDate.Equal(*snapshot.Positions[1].EndDate))

		// 2 * 3000 + 1 * 60000
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(66000)))
	})

	t.Run("skips rows without asset or amount", func(t *testing.T) {
		client := &fakeAccount{
			flexible: []domain.RawEarnPosition{
				{Asset: "", Amount: decimal.NewFromInt(5)},
				{Asset: "ETH", Amount: decimal.Zero},
				{Asset: "BTC", Amount: decimal.NewFromInt(1).Neg()},
			},
		}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.Earn(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot.Positions)
	})

	t.Run("locked fetch failure is propagated", func(t *testing.T) {
		client := &fakeAccount{lockErr: errors.New("api down")}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		_, err := svc.Earn(ctx)
		assert.Error(t, err)
	})
}

func TestService_LinearFutures(t *testing.T) {
	ctx := context.Background()

	t.Run("picks the USDT asset", func(t *testing.T) {
		client := &fakeAccount{linear: []domain.RawFuturesAsset{
			{Asset: "BNB", WalletBalance: decimal.NewFromInt(3)},
			{Asset: "USDT", WalletBalance: decimal.NewFromInt(1000), UnrealizedPnl: decimal.NewFromInt(-50)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.LinearFutures(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot.Position)
		assert.True(t, snapshot.Position.Total.Equal(decimal.NewFromInt(950)))
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(950)))
	})

	t.Run("no USDT asset yields empty snapshot", func(t *testing.T) {
		client := &fakeAccount{linear: []domain.RawFuturesAsset{
			{Asset: "BNB", WalletBalance: decimal.NewFromInt(3)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.LinearFutures(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot.Position)
		assert.True(t, snapshot.TotalUsd.IsZero())
	})
}

func TestService_InverseFutures(t *testing.T) {
	ctx := context.Background()

	t.Run("values coin positions at the asset price", func(t *testing.T) {
		client := &fakeAccount{inverse: []domain.RawFuturesAsset{
			{Asset: "BTC", WalletBalance: decimal.NewFromInt(2), UnrealizedPnl: decimal.NewFromFloat(-0.1)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.InverseFutures(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 1)

		p := snapshot.Positions[0]
		assert.True(t, p.Total.Equal(decimal.NewFromFloat(1.9)))
		require.NotNil(t, p.UsdValue)
		assert.True(t, p.UsdValue.Equal(decimal.NewFromInt(114000)), "got %s", p.UsdValue)
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(114000)))
	})

	t.Run("skips empty margin assets", func(t *testing.T) {
		client := &fakeAccount{inverse: []domain.RawFuturesAsset{
			{Asset: "ETH"},
			{Asset: "ADA", WalletBalance: decimal.New(1, -12), UnrealizedPnl: decimal.New(-1, -12)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.InverseFutures(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshot.Positions)
	})

	t.Run("keeps positions whose PnL cancels the balance", func(t *testing.T) {
		client := &fakeAccount{inverse: []domain.RawFuturesAsset{
			{Asset: "BTC", WalletBalance: decimal.NewFromFloat(0.5), UnrealizedPnl: decimal.NewFromFloat(-0.5)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.InverseFutures(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 1)
		assert.True(t, snapshot.Positions[0].Total.IsZero())
	})

	t.Run("unresolved margin asset reported without value", func(t *testing.T) {
		client := &fakeAccount{inverse: []domain.RawFuturesAsset{
			{Asset: "OBSCURE", WalletBalance: decimal.NewFromInt(10)},
		}}
		svc := testService(client, usdPrices(), nil, decimal.Zero)

		snapshot, err := svc.InverseFutures(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Positions, 1)
		assert.Nil(t, snapshot.Positions[0].UsdValue)
		assert.True(t, snapshot.TotalUsd.IsZero())
	})
}

func TestService_Full(t *testing.T) {
	ctx := context.Background()

	allAccounts := func() *fakeAccount {
		return &fakeAccount{
			spot: []domain.RawSpotBalance{
				{Asset: "BTC", Free: decimal.NewFromInt(1)},
			},
			flexible: []domain.RawEarnPosition{
				{Asset: "ETH", Amount: decimal.NewFromInt(2)},
			},
			linear: []domain.RawFuturesAsset{
				{Asset: "USDT", WalletBalance: decimal.NewFromInt(1000)},
			},
			inverse: []domain.RawFuturesAsset{
				{Asset: "BTC", WalletBalance: decimal.NewFromFloat(0.1)},
			},
		}
	}

	t.Run("sums all account types and records history", func(t *testing.T) {
		history := &fakeHistory{}
		svc := testService(allAccounts(), usdPrices(), history, decimal.NewFromFloat(0.01))

		snapshot := svc.Full(ctx)
		assert.True(t, snapshot.Complete)

		// 60000 + 6000 + 1000 + 6000
		want := decimal.NewFromInt(73000)
		assert.True(t, snapshot.TotalUsd.Equal(want), "got %s", snapshot.TotalUsd)

		points := history.appended()
		require.Len(t, points, 1)
		assert.True(t, points[0].TotalUsd.Equal(want))
	})

	t.Run("failed account type degrades to empty section", func(t *testing.T) {
		client := allAccounts()
		client.linearErr = errors.New("futures api down")
		history := &fakeHistory{}
		svc := testService(client, usdPrices(), history, decimal.NewFromFloat(0.01))

		snapshot := svc.Full(ctx)
		assert.False(t, snapshot.Complete)
		assert.Nil(t, snapshot.Futures.Position)

		// remaining accounts still counted: 60000 + 6000 + 6000
		assert.True(t, snapshot.TotalUsd.Equal(decimal.NewFromInt(72000)), "got %s", snapshot.TotalUsd)

		// incomplete runs never enter the history
		assert.Empty(t, history.appended())
	})

	t.Run("nil history store is tolerated", func(t *testing.T) {
		svc := testService(allAccounts(), usdPrices(), nil, decimal.NewFromFloat(0.01))
		snapshot := svc.Full(ctx)
		assert.True(t, snapshot.Complete)
	})

	t.Run("history append failure does not fail the run", func(t *testing.T) {
		history := &fakeHistory{err: errors.New("disk full")}
		svc := testService(allAccounts(), usdPrices(), history, decimal.NewFromFloat(0.01))

		snapshot := svc.Full(ctx)
		assert.True(t, snapshot.Complete)
		assert.Empty(t, history.appended())
	})

	t.Run("dust is summed across spot and earn", func(t *testing.T) {
		client := allAccounts()
		client.spot = append(client.spot, domain.RawSpotBalance{
			Asset: "LTC", Free: decimal.NewFromFloat(0.05), // 5 USD
		})
		client.flexible = append(client.flexible, domain.RawEarnPosition{
			Asset: "LTC", Amount: decimal.NewFromFloat(0.03), // 3 USD
		})
		svc := testService(client, usdPrices(), nil, decimal.NewFromInt(10))

		snapshot := svc.Full(ctx)
		assert.True(t, snapshot.DustUsd.Equal(decimal.NewFromInt(8)), "got %s", snapshot.DustUsd)
	})
}
