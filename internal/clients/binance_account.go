package clients

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/delivery"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

// BinanceAccount adapts the Binance spot, USDT-M, COIN-M and Simple Earn
// clients to the account snapshot operations the balance services need.
type BinanceAccount struct {
	spot     *binance.Client
	futures  *futures.Client
	delivery *delivery.Client
	earn     *SimpleEarnClient
}

func NewBinanceAccount(spot *binance.Client, apiKey, apiSecret string) *BinanceAccount {
	return &BinanceAccount{
		spot:     spot,
		futures:  NewBinanceFuturesClient(apiKey, apiSecret),
		delivery: NewBinanceDeliveryClient(apiKey, apiSecret),
		earn:     NewSimpleEarnClient(apiKey, apiSecret),
	}
}

// SpotBalances returns every spot wallet row, including zero balances;
// filtering is the caller's concern.
func (a *BinanceAccount) SpotBalances(ctx context.Context) ([]domain.RawSpotBalance, error) {
	account, err := a.spot.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance spot account")
	}

	balances := make([]domain.RawSpotBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse free balance for %s", b.Asset)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse locked balance for %s", b.Asset)
		}
		balances = append(balances, domain.RawSpotBalance{Asset: b.Asset, Free: free, Locked: locked})
	}
	return balances, nil
}

func (a *BinanceAccount) FlexibleEarnPositions(ctx context.Context) ([]domain.RawEarnPosition, error) {
	return a.earn.FlexiblePositions(ctx)
}

func (a *BinanceAccount) LockedEarnPositions(ctx context.Context) ([]domain.RawEarnPosition, error) {
	return a.earn.LockedPositions(ctx)
}

// LinearFuturesAssets returns the USDT-M futures wallet assets.
func (a *BinanceAccount) LinearFuturesAssets(ctx context.Context) ([]domain.RawFuturesAsset, error) {
	account, err := a.futures.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance usdt-m futures account")
	}

	assets := make([]domain.RawFuturesAsset, 0, len(account.Assets))
	for _, asset := range account.Assets {
		row, err := futuresAssetRow(asset.Asset, asset.WalletBalance, asset.UnrealizedProfit)
		if err != nil {
			return nil, err
		}
		assets = append(assets, row)
	}
	return assets, nil
}

// InverseFuturesAssets returns the COIN-M futures wallet assets.
func (a *BinanceAccount) InverseFuturesAssets(ctx context.Context) ([]domain.RawFuturesAsset, error) {
	account, err := a.delivery.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance coin-m futures account")
	}

	assets := make([]domain.RawFuturesAsset, 0, len(account.Assets))
	for _, asset := range account.Assets {
		row, err := futuresAssetRow(asset.Asset, asset.WalletBalance, asset.UnrealizedProfit)
		if err != nil {
			return nil, err
		}
		assets = append(assets, row)
	}
	return assets, nil
}

func futuresAssetRow(asset, walletBalance, unrealizedPnl string) (domain.RawFuturesAsset, error) {
	balance, err := decimal.NewFromString(walletBalance)
	if err != nil {
		return domain.RawFuturesAsset{}, errors.Wrapf(err, "failed to parse wallet balance for %s", asset)
	}
	pnl, err := decimal.NewFromString(unrealizedPnl)
	if err != nil {
		return domain.RawFuturesAsset{}, errors.Wrapf(err, "failed to parse unrealized pnl for %s", asset)
	}
	return domain.RawFuturesAsset{Asset: asset, WalletBalance: balance, UnrealizedPnl: pnl}, nil
}
