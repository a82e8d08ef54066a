// Package clients constructs the Binance REST clients and adapts them to
// the shapes the balance services consume.
package clients

import (
	"context"
	"errors"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/delivery"
	"github.com/adshao/go-binance/v2/futures"
)

// Binance error code for an unrecognized trading pair ("Invalid symbol").
const binanceSymbolNotFoundCode = -1121

func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}

func NewBinanceFuturesClient(apiKey, apiSecret string) *futures.Client {
	return futures.NewClient(apiKey, apiSecret)
}

func NewBinanceDeliveryClient(apiKey, apiSecret string) *delivery.Client {
	return delivery.NewClient(apiKey, apiSecret)
}

// IsSymbolNotFound reports whether err is the Binance "Invalid symbol"
// API error, the permanent marker for a pair that does not exist.
func IsSymbolNotFound(err error) bool {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == binanceSymbolNotFoundCode
	}
	return false
}

// Ping verifies connectivity and credentials plausibility before any
// account call is attempted. A failure here aborts the whole run.
func Ping(ctx context.Context, client *binance.Client) error {
	return client.NewPingService().Do(ctx)
}
