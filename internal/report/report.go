// Package report serializes valued account snapshots into JSON and text
// reports and writes them to the output directory.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

// Output file name suffixes, one per report type.
const (
	fullReportName    = "balance_output"
	spotReportName    = "spot_account_binance_output"
	earnReportName    = "earn_account_binance_output"
	futuresReportName = "futures_usdt_account_binance_output"
	inverseReportName = "futures_coin_m_account_binance_output"
)

// Writer writes report files under a fixed output directory.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	if outputDir == "" {
		outputDir = "output"
	}
	return &Writer{outputDir: outputDir}
}

// SaveFull writes the full report as balance_output.json/.txt.
func (w *Writer) SaveFull(snapshot domain.FullSnapshot) error {
	return w.save(fullReportName, snapshot, RenderFullText(snapshot))
}

// SaveSpot writes a spot-only report.
func (w *Writer) SaveSpot(snapshot domain.SpotSnapshot) error {
	payload := struct {
		Timestamp time.Time           `json:"timestamp"`
		Spot      domain.SpotSnapshot `json:"spot_balance"`
	}{time.Now(), snapshot}
	return w.save(spotReportName, payload, RenderSpotText(snapshot))
}

// SaveEarn writes an earn-only report.
func (w *Writer) SaveEarn(snapshot domain.EarnSnapshot) error {
	payload := struct {
		Timestamp time.Time           `json:"timestamp"`
		Earn      domain.EarnSnapshot `json:"earn_balance"`
	}{time.Now(), snapshot}
	return w.save(earnReportName, payload, RenderEarnText(snapshot))
}

// SaveFutures writes a USDT-M futures report.
func (w *Writer) SaveFutures(snapshot domain.FuturesSnapshot) error {
	payload := struct {
		Timestamp time.Time              `json:"timestamp"`
		Futures   domain.FuturesSnapshot `json:"futures_balance_usdt_m"`
	}{time.Now(), snapshot}
	return w.save(futuresReportName, payload, RenderFuturesText(snapshot))
}

// SaveInverse writes a COIN-M futures report.
func (w *Writer) SaveInverse(snapshot domain.InverseSnapshot) error {
	payload := struct {
		Timestamp time.Time              `json:"timestamp"`
		Inverse   domain.InverseSnapshot `json:"futures_balance_coin_m"`
	}{time.Now(), snapshot}
	return w.save(inverseReportName, payload, RenderInverseText(snapshot))
}

func (w *Writer) save(name string, jsonPayload interface{}, text string) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	data, err := json.MarshalIndent(jsonPayload, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s report", name)
	}
	jsonPath := filepath.Join(w.outputDir, name+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", jsonPath)
	}

	txtPath := filepath.Join(w.outputDir, name+".txt")
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", txtPath)
	}
	return nil
}
