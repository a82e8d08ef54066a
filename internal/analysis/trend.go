// Package analysis summarizes the balance history trend. It uses the
// cinar/indicator library to smooth the recorded grand totals with a
// simple moving average.
package analysis

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

// DefaultSmaPeriod smoothing window for the balance trend.
const DefaultSmaPeriod = 5

// Trend is the smoothed state of the balance history.
type Trend struct {
	Points    int
	FirstUsd  decimal.Decimal
	LastUsd   decimal.Decimal
	SmaUsd    decimal.Decimal
	Direction string // "up", "down" or "flat"
}

// BalanceTrend computes the SMA of the recorded grand totals over the
// given period and compares the latest total against it.
func BalanceTrend(records []domain.HistoryRecord, period int) (Trend, error) {
	if period < 1 {
		period = DefaultSmaPeriod
	}
	if len(records) < period {
		return Trend{}, fmt.Errorf("not enough history points: need %d, got %d", period, len(records))
	}

	totals := make([]float64, len(records))
	for i, record := range records {
		totals[i] = record.Point.TotalUsd.InexactFloat64()
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	smoothed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(totals)))
	if len(smoothed) == 0 {
		return Trend{}, fmt.Errorf("sma produced no values for %d history points", len(records))
	}

	result := Trend{
		Points:   len(records),
		FirstUsd: records[0].Point.TotalUsd,
		LastUsd:  records[len(records)-1].Point.TotalUsd,
		SmaUsd:   decimal.NewFromFloat(smoothed[len(smoothed)-1]).Round(2),
	}

	switch {
	case result.LastUsd.GreaterThan(result.SmaUsd):
		result.Direction = "up"
	case result.LastUsd.LessThan(result.SmaUsd):
		result.Direction = "down"
	default:
		result.Direction = "flat"
	}
	return result, nil
}

// String renders a one-paragraph summary for the CLI.
func (t Trend) String() string {
	return fmt.Sprintf(
		"balance history: %d points, first %s USD, last %s USD, SMA %s USD, trend %s",
		t.Points, t.FirstUsd.StringFixed(2), t.LastUsd.StringFixed(2),
		t.SmaUsd.StringFixed(2), t.Direction)
}
