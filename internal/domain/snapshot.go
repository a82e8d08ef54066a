package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpotSnapshot the result of one spot wallet fetch. TotalUsd counts only
// non-dust positions with a resolved price; DustUsd accumulates the value
// of positions filtered out as dust.
type SpotSnapshot struct {
	Positions []SpotPosition  `json:"assets"`
	TotalUsd  decimal.Decimal `json:"total_estimated_usd"`
	DustUsd   decimal.Decimal `json:"total_dust_estimated_usd"`
}

// EarnSnapshot the result of one Simple Earn fetch (flexible + locked).
type EarnSnapshot struct {
	Positions []EarnPosition  `json:"assets"`
	TotalUsd  decimal.Decimal `json:"total_estimated_usd"`
	DustUsd   decimal.Decimal `json:"total_dust_estimated_usd"`
}

// FuturesSnapshot the result of one USDT-M futures fetch. Position is nil
// when the wallet holds no USDT asset. Futures wallets are never
// dust-filtered.
type FuturesSnapshot struct {
	Position *FuturesPosition `json:"position"`
	TotalUsd decimal.Decimal  `json:"total_estimated_usd"`
}

// InverseSnapshot the result of one COIN-M futures fetch. TotalUsd counts
// only positions with a resolved price. Never dust-filtered.
type InverseSnapshot struct {
	Positions []InversePosition `json:"assets"`
	TotalUsd  decimal.Decimal   `json:"total_estimated_usd"`
}

// FullSnapshot the aggregate of all four account types for one run.
// Complete is false when at least one account type could not be fetched;
// the grand total then covers only the account types that succeeded and
// must not be recorded in the balance history.
type FullSnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Spot      SpotSnapshot    `json:"spot_balance"`
	Earn      EarnSnapshot    `json:"earn_balance"`
	Futures   FuturesSnapshot `json:"futures_balance_usdt_m"`
	Inverse   InverseSnapshot `json:"futures_balance_coin_m"`
	TotalUsd  decimal.Decimal `json:"total_balance_estimated_usd"`
	DustUsd   decimal.Decimal `json:"total_dust_across_accounts_usd"`
	Complete  bool            `json:"-"`
}

// HistoryPoint one balance history entry: the grand total of a completed
// full run.
type HistoryPoint struct {
	Timestamp time.Time       `json:"ts"`
	TotalUsd  decimal.Decimal `json:"total_usd"`
}

// HistoryRecord bundles a history point with its WAL index.
type HistoryRecord struct {
	Index uint64
	Point HistoryPoint
}
