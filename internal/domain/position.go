// Package domain defines core data structures used throughout the balance reporter.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Earn product kinds as reported by Binance Simple Earn.
const (
	EarnProductFlexible = "Flexible Simple Earn"
	EarnProductLocked   = "Locked Simple Earn"
)

// SpotPosition one spot wallet row. UsdValue is nil when the price
// could not be resolved; such positions are always reported, never
// treated as dust.
type SpotPosition struct {
	Asset    string           `json:"asset"`
	Free     decimal.Decimal  `json:"free"`
	Locked   decimal.Decimal  `json:"locked"`
	Total    decimal.Decimal  `json:"total"`
	UsdValue *decimal.Decimal `json:"usd_value"`
}

// EarnPosition one Simple Earn position (flexible or locked).
// EndDate is set only for locked products that report one.
type EarnPosition struct {
	Asset    string           `json:"asset"`
	Product  string           `json:"product"`
	Amount   decimal.Decimal  `json:"amount"`
	EndDate  *time.Time       `json:"end_date,omitempty"`
	UsdValue *decimal.Decimal `json:"usd_value"`
}

// FuturesPosition the single USDT position of the USDT-M futures wallet.
// Total is wallet balance plus unrealized PnL and may be negative.
type FuturesPosition struct {
	Asset         string          `json:"asset"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	UnrealizedPnl decimal.Decimal `json:"unrealized_pnl"`
	Total         decimal.Decimal `json:"total"`
}

// InversePosition one COIN-M futures margin asset. Total is the net coin
// quantity (wallet balance plus unrealized PnL) and may be negative.
type InversePosition struct {
	Asset         string           `json:"asset"`
	WalletBalance decimal.Decimal  `json:"wallet_balance"`
	UnrealizedPnl decimal.Decimal  `json:"unrealized_pnl"`
	Total         decimal.Decimal  `json:"total"`
	UnitPrice     *decimal.Decimal `json:"usd_price"`
	UsdValue      *decimal.Decimal `json:"usd_value"`
}

// RawSpotBalance a spot balance row as returned by the exchange.
type RawSpotBalance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// RawEarnPosition a Simple Earn position row as returned by the exchange.
type RawEarnPosition struct {
	Asset   string
	Amount  decimal.Decimal
	EndDate *time.Time
}

// RawFuturesAsset a futures wallet asset row as returned by the exchange,
// shared by the USDT-M and COIN-M account endpoints.
type RawFuturesAsset struct {
	Asset         string
	WalletBalance decimal.Decimal
	UnrealizedPnl decimal.Decimal
}
