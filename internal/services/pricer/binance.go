package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/clients"
	"github.com/vadiminshakov/binfolio/internal/domain"
)

// BinancePricer fetches instantaneous ticker prices from Binance spot.
type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

func (p *BinancePricer) InstantPrice(ctx context.Context, pairSymbol string) (decimal.Decimal, error) {
	prices, err := p.client.NewListPricesService().Symbol(pairSymbol).Do(ctx)
	if err != nil {
		if clients.IsSymbolNotFound(err) {
			return decimal.Decimal{}, errors.Wrapf(domain.ErrPairNotFound, "binance has no symbol %s", pairSymbol)
		}
		return decimal.Decimal{}, errors.Wrapf(err, "failed to get binance price for %s", pairSymbol)
	}
	if len(prices) == 0 {
		return decimal.Decimal{}, errors.Wrapf(domain.ErrPairNotFound, "binance returned no price for %s", pairSymbol)
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "failed to parse binance price for %s", pairSymbol)
	}
	return price, nil
}
