// Command binfolio aggregates Binance account holdings (spot, Simple
// Earn, USDT-M and COIN-M futures), values them in USD and writes JSON
// and text reports.
//
// Usage:
//
//	binfolio [--config config.yaml] [--type full|spot|earn|futures|inverse] [--dust-threshold 0.01]
//	binfolio --setup     interactive configuration wizard
//	binfolio --trend     balance history trend summary
//	binfolio --serve     balance history dashboard
//
// Required environment variables: BINANCE_API_KEY, BINANCE_API_SECRET.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vadiminshakov/binfolio/config"
	"github.com/vadiminshakov/binfolio/dashboard"
	"github.com/vadiminshakov/binfolio/internal/analysis"
	"github.com/vadiminshakov/binfolio/internal/clients"
	"github.com/vadiminshakov/binfolio/internal/domain"
	"github.com/vadiminshakov/binfolio/internal/report"
	"github.com/vadiminshakov/binfolio/internal/retry"
	"github.com/vadiminshakov/binfolio/internal/services/account"
	"github.com/vadiminshakov/binfolio/internal/services/pricer"
	"github.com/vadiminshakov/binfolio/internal/setup"
	"github.com/vadiminshakov/binfolio/internal/storage/balancehistory"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Mode == config.ModeSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	switch cfg.Mode {
	case config.ModeTrend:
		runTrend(logger, cfg)
	case config.ModeServe:
		runServe(logger, cfg)
	default:
		runReport(logger, cfg)
	}
}

func runTrend(logger *zap.Logger, cfg config.Config) {
	store, err := balancehistory.NewWALStore(cfg.HistoryDir)
	if err != nil {
		logger.Fatal("failed to open balance history", zap.Error(err))
	}
	defer store.Close()

	records, err := store.All()
	if err != nil {
		logger.Fatal("failed to read balance history", zap.Error(err))
	}

	trend, err := analysis.BalanceTrend(records, analysis.DefaultSmaPeriod)
	if err != nil {
		logger.Fatal("failed to compute balance trend", zap.Error(err))
	}
	fmt.Println(trend.String())
}

func runServe(logger *zap.Logger, cfg config.Config) {
	store, err := balancehistory.NewWALStore(cfg.HistoryDir)
	if err != nil {
		logger.Fatal("failed to open balance history", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := dashboard.NewServer(cfg.DashboardAddr, store)
	logger.Info("serving balance history dashboard", zap.String("addr", cfg.DashboardAddr))

	if len(cfg.DashboardDomains) > 0 {
		err = server.StartWithAutoTLS(ctx, cfg.DashboardDomains, cfg.CertCacheDir)
	} else {
		err = server.Start(ctx)
	}
	if err != nil {
		logger.Fatal("dashboard server failed", zap.Error(err))
	}
}

func runReport(logger *zap.Logger, cfg config.Config) {
	apiKey := os.Getenv("BINANCE_API_KEY")
	apiSecret := os.Getenv("BINANCE_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
	}

	ctx := context.Background()

	binanceClient := clients.NewBinanceClient(apiKey, apiSecret)
	if err := clients.Ping(ctx, binanceClient); err != nil {
		logger.Fatal("binance API handshake failed", zap.Error(err))
	}

	history, err := balancehistory.NewWALStore(cfg.HistoryDir)
	if err != nil {
		logger.Fatal("failed to open balance history", zap.Error(err))
	}
	defer history.Close()

	policy := retry.Policy{
		Attempts: cfg.RetryAttempts,
		Delay:    cfg.RetryDelay,
		IsPermanent: func(err error) bool {
			return errors.Is(err, domain.ErrPairNotFound)
		},
	}

	resolver := pricer.NewResolver(pricer.NewBinancePricer(binanceClient), logger, policy, cfg.CacheNegativeResults)
	accountClient := clients.NewBinanceAccount(binanceClient, apiKey, apiSecret)
	service := account.NewService(accountClient, resolver, history, logger, policy, cfg.DustThreshold)
	writer := report.NewWriter(cfg.OutputDir)

	switch cfg.ReportType {
	case config.ReportSpot:
		snapshot, err := service.Spot(ctx)
		if err != nil {
			logger.Error("spot balance unavailable", zap.Error(err))
		}
		fmt.Println(report.RenderSpotText(snapshot))
		saveReport(logger, "spot", writer.SaveSpot(snapshot))
	case config.ReportEarn:
		snapshot, err := service.Earn(ctx)
		if err != nil {
			logger.Error("earn balance unavailable", zap.Error(err))
		}
		fmt.Println(report.RenderEarnText(snapshot))
		saveReport(logger, "earn", writer.SaveEarn(snapshot))
	case config.ReportFutures:
		snapshot, err := service.LinearFutures(ctx)
		if err != nil {
			logger.Error("usdt-m futures balance unavailable", zap.Error(err))
		}
		fmt.Println(report.RenderFuturesText(snapshot))
		saveReport(logger, "futures", writer.SaveFutures(snapshot))
	case config.ReportInverse:
		snapshot, err := service.InverseFutures(ctx)
		if err != nil {
			logger.Error("coin-m futures balance unavailable", zap.Error(err))
		}
		fmt.Println(report.RenderInverseText(snapshot))
		saveReport(logger, "inverse", writer.SaveInverse(snapshot))
	default:
		snapshot := service.Full(ctx)
		fmt.Println(report.RenderFullText(snapshot))
		saveReport(logger, "full", writer.SaveFull(snapshot))
	}
}

func saveReport(logger *zap.Logger, name string, err error) {
	if err != nil {
		logger.Error("failed to save report", zap.String("report", name), zap.Error(err))
		return
	}
	logger.Info("report saved", zap.String("report", name))
}
