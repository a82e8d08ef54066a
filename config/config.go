// Package config loads the reporter configuration from an optional yaml
// file and command line flags. Credentials never live in the config
// file; they come from BINANCE_API_KEY / BINANCE_API_SECRET.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Run modes.
const (
	ModeReport = "report"
	ModeServe  = "serve"
	ModeSetup  = "setup"
	ModeTrend  = "trend"
)

// Report types, matching the four account fetchers plus the combined run.
const (
	ReportFull    = "full"
	ReportSpot    = "spot"
	ReportEarn    = "earn"
	ReportFutures = "futures"
	ReportInverse = "inverse"
)

type Config struct {
	Mode                 string
	ReportType           string
	DustThreshold        decimal.Decimal
	RetryAttempts        int
	RetryDelay           time.Duration
	CacheNegativeResults bool
	OutputDir            string
	HistoryDir           string
	DashboardAddr        string
	DashboardDomains     []string
	CertCacheDir         string
}

// ConfigTmp is the yaml representation; string fields for values that
// need parsing/validation before use.
type ConfigTmp struct {
	ReportType           string        `yaml:"report_type,omitempty"`
	DustThresholdStr     string        `yaml:"dust_threshold,omitempty"`
	RetryAttempts        int           `yaml:"retry_attempts,omitempty"`
	RetryDelay           time.Duration `yaml:"retry_delay,omitempty"`
	CacheNegativeResults *bool         `yaml:"cache_negative_results,omitempty"`
	OutputDir            string        `yaml:"output_dir,omitempty"`
	HistoryDir           string        `yaml:"history_dir,omitempty"`
	DashboardAddr        string        `yaml:"dashboard_addr,omitempty"`
	DashboardDomains     []string      `yaml:"dashboard_domains,omitempty"`
	CertCacheDir         string        `yaml:"cert_cache_dir,omitempty"`
}

// Default returns the configuration used when nothing is provided.
func Default() Config {
	return Config{
		Mode:                 ModeReport,
		ReportType:           ReportFull,
		DustThreshold:        decimal.NewFromFloat(0.01),
		RetryAttempts:        3,
		RetryDelay:           2 * time.Second,
		CacheNegativeResults: true,
		OutputDir:            "output",
		HistoryDir:           "wal/history",
		DashboardAddr:        ":8080",
		CertCacheDir:         "cert-cache",
	}
}

// Get parses flags and the optional yaml file into a validated Config.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	reportType := flag.String("type", "", "report type: full|spot|earn|futures|inverse")
	dustThreshold := flag.String("dust-threshold", "", "dust threshold in USD for spot and earn reports")
	serve := flag.Bool("serve", false, "serve the balance history dashboard instead of running a report")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard")
	trendMode := flag.Bool("trend", false, "print a balance history trend summary")
	flag.Parse()

	cfg := Default()
	if *configPath != "" {
		var err error
		cfg, err = fromYamlFile(*configPath)
		if err != nil {
			return Config{}, err
		}
	}

	switch {
	case *setup:
		cfg.Mode = ModeSetup
	case *serve:
		cfg.Mode = ModeServe
	case *trendMode:
		cfg.Mode = ModeTrend
	}

	if *reportType != "" {
		cfg.ReportType = *reportType
	}
	if *dustThreshold != "" {
		threshold, err := decimal.NewFromString(*dustThreshold)
		if err != nil {
			return Config{}, fmt.Errorf("invalid --dust-threshold provided: %s", *dustThreshold)
		}
		cfg.DustThreshold = threshold
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromYamlFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return fromYaml(data)
}

func fromYaml(data []byte) (Config, error) {
	var tmp ConfigTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, fmt.Errorf("failed to parse yaml config: %w", err)
	}

	cfg := Default()
	if tmp.ReportType != "" {
		cfg.ReportType = tmp.ReportType
	}
	if tmp.DustThresholdStr != "" {
		threshold, err := decimal.NewFromString(tmp.DustThresholdStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid dust_threshold in config: %s", tmp.DustThresholdStr)
		}
		cfg.DustThreshold = threshold
	}
	if tmp.RetryAttempts != 0 {
		cfg.RetryAttempts = tmp.RetryAttempts
	}
	if tmp.RetryDelay != 0 {
		cfg.RetryDelay = tmp.RetryDelay
	}
	if tmp.CacheNegativeResults != nil {
		cfg.CacheNegativeResults = *tmp.CacheNegativeResults
	}
	if tmp.OutputDir != "" {
		cfg.OutputDir = tmp.OutputDir
	}
	if tmp.HistoryDir != "" {
		cfg.HistoryDir = tmp.HistoryDir
	}
	if tmp.DashboardAddr != "" {
		cfg.DashboardAddr = tmp.DashboardAddr
	}
	if len(tmp.DashboardDomains) != 0 {
		cfg.DashboardDomains = tmp.DashboardDomains
	}
	if tmp.CertCacheDir != "" {
		cfg.CertCacheDir = tmp.CertCacheDir
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ReportType {
	case ReportFull, ReportSpot, ReportEarn, ReportFutures, ReportInverse:
	default:
		return fmt.Errorf("invalid report type %q, want full|spot|earn|futures|inverse", c.ReportType)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must not be negative, got %s", c.RetryDelay)
	}
	if c.DustThreshold.IsNegative() {
		return fmt.Errorf("dust_threshold must not be negative, got %s", c.DustThreshold)
	}
	return nil
}
