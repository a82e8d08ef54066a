package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)
)

// usd formats an optional USD amount, N/A when the price was unresolved.
func usd(value *decimal.Decimal) string {
	if value == nil {
		return "N/A"
	}
	return value.StringFixed(2)
}

func qty(value decimal.Decimal) string {
	return value.StringFixed(8)
}

func balanceTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, row := range rows {
		t.Row(row...)
	}
	return t.Render()
}

func renderSpotSection(snapshot domain.SpotSnapshot) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("--- Spot wallet ---") + "\n")
	if len(snapshot.Positions) == 0 {
		b.WriteString("No assets with a balance above zero on the spot wallet.\n")
	} else {
		rows := make([][]string, 0, len(snapshot.Positions))
		for _, p := range snapshot.Positions {
			rows = append(rows, []string{p.Asset, qty(p.Free), qty(p.Locked), qty(p.Total), usd(p.UsdValue)})
		}
		b.WriteString(balanceTable([]string{"ASSET", "FREE", "LOCKED", "TOTAL", "VALUE (USD)"}, rows) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal spot balance (dust excluded): %s USD\n", snapshot.TotalUsd.StringFixed(2)))
	if snapshot.DustUsd.IsPositive() {
		b.WriteString(fmt.Sprintf("Total filtered spot dust: %s USD\n", snapshot.DustUsd.StringFixed(2)))
	}
	return b.String()
}

func renderEarnSection(snapshot domain.EarnSnapshot) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("--- Binance Earn account ---") + "\n")
	if len(snapshot.Positions) == 0 {
		b.WriteString("No assets with a balance above zero on the Earn account.\n")
	} else {
		// show the end date column only when at least one position has one
		withEndDate := false
		for _, p := range snapshot.Positions {
			if p.EndDate != nil {
				withEndDate = true
				break
			}
		}

		headers := []string{"ASSET", "PRODUCT", "TOTAL"}
		if withEndDate {
			headers = append(headers, "END DATE")
		}
		headers = append(headers, "VALUE (USD)")

		rows := make([][]string, 0, len(snapshot.Positions))
		for _, p := range snapshot.Positions {
			row := []string{p.Asset, p.Product, qty(p.Amount)}
			if withEndDate {
				endDate := ""
				if p.EndDate != nil {
					endDate = p.EndDate.Format("2006-01-02")
				}
				row = append(row, endDate)
			}
			row = append(row, usd(p.UsdValue))
			rows = append(rows, row)
		}
		b.WriteString(balanceTable(headers, rows) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal Binance Earn balance (dust excluded): %s USD\n", snapshot.TotalUsd.StringFixed(2)))
	if snapshot.DustUsd.IsPositive() {
		b.WriteString(fmt.Sprintf("Total filtered Earn dust: %s USD\n", snapshot.DustUsd.StringFixed(2)))
	}
	return b.String()
}

func renderFuturesSection(snapshot domain.FuturesSnapshot) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("--- Futures wallet (USDT-M) ---") + "\n")
	if snapshot.Position == nil {
		b.WriteString("No USDT asset found on the USDT-M futures wallet.\n")
	} else {
		b.WriteString(fmt.Sprintf("Asset: %s\n", snapshot.Position.Asset))
		b.WriteString(fmt.Sprintf("  Wallet balance: %s\n", qty(snapshot.Position.WalletBalance)))
		b.WriteString(fmt.Sprintf("  Unrealized PnL: %s\n", qty(snapshot.Position.UnrealizedPnl)))
		b.WriteString(fmt.Sprintf("  Total (USDT): %s\n", qty(snapshot.Position.Total)))
	}
	b.WriteString(fmt.Sprintf("\nTotal USDT-M futures balance (USD estimate): %s USD\n", snapshot.TotalUsd.StringFixed(2)))
	return b.String()
}

func renderInverseSection(snapshot domain.InverseSnapshot) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("--- Futures wallet (COIN-M) ---") + "\n")
	if len(snapshot.Positions) == 0 {
		b.WriteString("No assets to display on the COIN-M futures wallet.\n")
	} else {
		rows := make([][]string, 0, len(snapshot.Positions))
		for _, p := range snapshot.Positions {
			rows = append(rows, []string{
				p.Asset, qty(p.WalletBalance), qty(p.UnrealizedPnl), qty(p.Total),
				usd(p.UnitPrice), usd(p.UsdValue),
			})
		}
		b.WriteString(balanceTable(
			[]string{"ASSET", "WALLET BALANCE", "UNREALIZED PNL", "TOTAL (COIN)", "PRICE (USD)", "VALUE (USD)"},
			rows) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal COIN-M futures balance (USD estimate): %s USD\n", snapshot.TotalUsd.StringFixed(2)))
	return b.String()
}

func reportHeader(title string, at time.Time, width int) string {
	return fmt.Sprintf("%s: %s\n%s\n\n", title, at.Format("2006-01-02 15:04:05"), strings.Repeat("=", width))
}

// RenderSpotText renders a spot-only text report.
func RenderSpotText(snapshot domain.SpotSnapshot) string {
	return reportHeader("Binance spot balance report as of", time.Now(), 40) +
		renderSpotSection(snapshot) + strings.Repeat("=", 40) + "\n"
}

// RenderEarnText renders an earn-only text report.
func RenderEarnText(snapshot domain.EarnSnapshot) string {
	return reportHeader("Binance Earn balance report as of", time.Now(), 40) +
		renderEarnSection(snapshot) + strings.Repeat("=", 40) + "\n"
}

// RenderFuturesText renders a USDT-M futures text report.
func RenderFuturesText(snapshot domain.FuturesSnapshot) string {
	return reportHeader("Binance futures balance report (USDT-M) as of", time.Now(), 40) +
		renderFuturesSection(snapshot) + strings.Repeat("=", 40) + "\n"
}

// RenderInverseText renders a COIN-M futures text report.
func RenderInverseText(snapshot domain.InverseSnapshot) string {
	return reportHeader("Binance futures balance report (COIN-M) as of", time.Now(), 40) +
		renderInverseSection(snapshot) + strings.Repeat("=", 40) + "\n"
}

// RenderFullText renders the combined report for all account types with
// the grand total footer.
func RenderFullText(snapshot domain.FullSnapshot) string {
	var b strings.Builder
	b.WriteString(reportHeader("Binance balance report as of", snapshot.Timestamp, 80))
	b.WriteString(renderSpotSection(snapshot.Spot) + "\n\n")
	b.WriteString(renderEarnSection(snapshot.Earn) + "\n\n")
	b.WriteString(renderFuturesSection(snapshot.Futures) + "\n")
	b.WriteString(renderInverseSection(snapshot.Inverse) + "\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString(totalStyle.Render(fmt.Sprintf(
		"TOTAL BALANCE (spot + Earn + USDT-M + COIN-M, dust excluded): %s USD",
		snapshot.TotalUsd.StringFixed(2))) + "\n")
	if snapshot.DustUsd.IsPositive() {
		b.WriteString(fmt.Sprintf("Total filtered dust (spot + Earn): %s USD\n", snapshot.DustUsd.StringFixed(2)))
	}
	if !snapshot.Complete {
		b.WriteString("Warning: some account types could not be fetched, totals are partial.\n")
	}
	b.WriteString(strings.Repeat("=", 80) + "\n")
	return b.String()
}
