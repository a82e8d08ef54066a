// Package setup provides the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/binfolio/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the
// resulting config to config.gen.yaml.
func RunTUI() error {
	var (
		reportType    string
		dustStr       string
		attemptsStr   string
		delayStr      string
		cacheNegative bool
		outputDir     string
		historyDir    string
		dashboardAddr string
		confirm       bool
	)

	// defaults
	dustStr = "0.01"
	attemptsStr = "3"
	delayStr = "2s"
	cacheNegative = true
	outputDir = "output"
	historyDir = "wal/history"
	dashboardAddr = ":8080"

	fmt.Print("\033[H\033[2J") // clear screen
	fmt.Println(headerStyle.Render("BINFOLIO CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your balance reports.\n"))

	fmt.Println(stepStyle.Render("STEP 1: REPORT"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default report type").
				Options(
					huh.NewOption("Full (spot + earn + futures)", config.ReportFull),
					huh.NewOption("Spot only", config.ReportSpot),
					huh.NewOption("Earn only", config.ReportEarn),
					huh.NewOption("USDT-M futures only", config.ReportFutures),
					huh.NewOption("COIN-M futures only", config.ReportInverse),
				).
				Value(&reportType),
			huh.NewInput().
				Title("Dust threshold (USD)").
				Description("Spot/earn positions below this value are tallied separately").
				Value(&dustStr).
				Validate(validateNonNegativeDecimal),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BINFOLIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: RETRIES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Retry attempts").
				Description("Attempts per remote call (e.g. 3)").
				Value(&attemptsStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Retry delay").
				Description("Duration string (e.g. 2s, 5s)").
				Value(&delayStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewConfirm().
				Title("Cache failed price resolutions?").
				Description("Skip re-querying symbols that failed to resolve within a run").
				Value(&cacheNegative),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BINFOLIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: PATHS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report output directory").
				Value(&outputDir),
			huh.NewInput().
				Title("Balance history directory").
				Value(&historyDir),
			huh.NewInput().
				Title("Dashboard address").
				Description("Used by binfolio --serve (e.g. :8080)").
				Value(&dashboardAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("BINFOLIO CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Report: %s\nDust threshold: %s USD\nRetries: %s every %s\nCache failed lookups: %t\nOutput: %s\nHistory: %s\n",
		reportType, dustStr, attemptsStr, delayStr, cacheNegative, outputDir, historyDir,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	delay, _ := time.ParseDuration(delayStr)
	attempts := 3
	fmt.Sscanf(attemptsStr, "%d", &attempts)

	cfgTmp := config.ConfigTmp{
		ReportType:           reportType,
		DustThresholdStr:     dustStr,
		RetryAttempts:        attempts,
		RetryDelay:           delay,
		CacheNegativeResults: &cacheNegative,
		OutputDir:            outputDir,
		HistoryDir:           historyDir,
		DashboardAddr:        dashboardAddr,
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s\nRemember to export BINANCE_API_KEY and BINANCE_API_SECRET.", filename)))
	return nil
}

func validateNonNegativeDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePositiveInt(s string) error {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
