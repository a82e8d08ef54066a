// Package pricer resolves the USD unit price of exchange assets.
//
// Resolution order: stablecoin short-circuit, direct stablecoin quote
// pairs, then cross conversion through BTC and BNB. Results are memoized
// for the lifetime of the resolver, so a run performs at most one full
// fallback chain per symbol.
package pricer

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/retry"
)

// Source exposes the exchange ticker lookup. An unknown pair must be
// reported as domain.ErrPairNotFound.
type Source interface {
	InstantPrice(ctx context.Context, pairSymbol string) (decimal.Decimal, error)
}

// Assets pegged 1:1 to USD: valued at exactly 1.0 without any lookup.
var stablecoins = map[string]struct{}{
	"USDT": {},
	"USDC": {},
	"BUSD": {},
	"DAI":  {},
	"TUSD": {},
	"USD":  {},
}

// Preferred quote assets for a direct price, tried in order.
var quoteAssets = []string{"USDT", "BUSD", "USDC", "TUSD"}

// Conversion hops when no stablecoin pair exists: the asset is priced in
// the hop currency and the hop's own USD price is resolved recursively
// through the same memoized path.
var conversionAssets = []string{"BTC", "BNB"}

type cacheEntry struct {
	price    decimal.Decimal
	resolved bool
}

// Resolver resolves asset prices against a Source with per-run caching.
// Safe for concurrent use; concurrent resolution of the same symbol may
// duplicate remote calls but always converges to the same value.
type Resolver struct {
	source        Source
	logger        *zap.Logger
	policy        retry.Policy
	cacheNegative bool

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewResolver creates a resolver with an empty cache. cacheNegative
// controls whether a fully failed resolution is memoized (subsequent
// lookups return unresolved without remote calls) or re-attempted fresh.
func NewResolver(source Source, logger *zap.Logger, policy retry.Policy, cacheNegative bool) *Resolver {
	if policy.IsPermanent == nil {
		policy.IsPermanent = func(err error) bool {
			return errors.Is(err, domain.ErrPairNotFound)
		}
	}
	return &Resolver{
		source:        source,
		logger:        logger,
		policy:        policy,
		cacheNegative: cacheNegative,
		cache:         make(map[string]cacheEntry),
	}
}

// UsdPrice returns the estimated USD unit price of symbol. ok is false
// when no fallback produced a price; callers must treat the value as
// unknown, not zero.
func (r *Resolver) UsdPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool) {
	if entry, found := r.cached(symbol); found {
		return entry.price, entry.resolved
	}

	if _, isStable := stablecoins[symbol]; isStable {
		one := decimal.NewFromInt(1)
		r.store(symbol, cacheEntry{price: one, resolved: true})
		return one, true
	}

	for _, quote := range quoteAssets {
		price, err := r.fetch(ctx, symbol+quote)
		if err == nil {
			r.store(symbol, cacheEntry{price: price, resolved: true})
			return price, true
		}
		if !errors.Is(err, domain.ErrPairNotFound) {
			r.logger.Warn("price lookup failed, trying next quote asset",
				zap.String("pair", symbol+quote), zap.Error(err))
		}
	}

	for _, hop := range conversionAssets {
		if price, converted := r.convert(ctx, symbol, hop); converted {
			r.store(symbol, cacheEntry{price: price, resolved: true})
			return price, true
		}
	}

	r.logger.Error("could not resolve USD price by any method", zap.String("asset", symbol))
	if r.cacheNegative {
		r.store(symbol, cacheEntry{})
	}
	return decimal.Decimal{}, false
}

// convert prices symbol via the pair symbol+hop multiplied by the hop's
// own USD price.
func (r *Resolver) convert(ctx context.Context, symbol, hop string) (decimal.Decimal, bool) {
	priceInHop, err := r.fetch(ctx, symbol+hop)
	if err != nil {
		if !errors.Is(err, domain.ErrPairNotFound) {
			r.logger.Warn("conversion pair lookup failed",
				zap.String("pair", symbol+hop), zap.Error(err))
		}
		return decimal.Decimal{}, false
	}

	hopUsd, ok := r.UsdPrice(ctx, hop)
	if !ok || !hopUsd.IsPositive() {
		r.logger.Warn("could not price conversion asset in USD",
			zap.String("asset", symbol), zap.String("via", hop))
		return decimal.Decimal{}, false
	}

	return priceInHop.Mul(hopUsd), true
}

func (r *Resolver) fetch(ctx context.Context, pairSymbol string) (decimal.Decimal, error) {
	return retry.Do(ctx, r.logger, r.policy, "ticker "+pairSymbol,
		func(ctx context.Context) (decimal.Decimal, error) {
			return r.source.InstantPrice(ctx, pairSymbol)
		})
}

func (r *Resolver) cached(symbol string) (cacheEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, found := r.cache[symbol]
	return entry, found
}

func (r *Resolver) store(symbol string, entry cacheEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[symbol] = entry
}
