package clients

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/binfolio/internal/domain"
)

// go-binance does not cover the Simple Earn position endpoints, so this
// client signs the two SAPI calls itself.
const (
	sapiBaseURL          = "https://api.binance.com"
	flexiblePositionPath = "/sapi/v1/simple-earn/flexible/position"
	lockedPositionPath   = "/sapi/v1/simple-earn/locked/position"
	earnPageSize         = "100"
	earnRecvWindow       = "5000"
)

// SimpleEarnClient fetches Simple Earn flexible and locked positions.
type SimpleEarnClient struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

func NewSimpleEarnClient(apiKey, apiSecret string) *SimpleEarnClient {
	return &SimpleEarnClient{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    sapiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type earnPositionRow struct {
	Asset       string `json:"asset"`
	TotalAmount string `json:"totalAmount"`
	EndDate     int64  `json:"endDate"`
}

type earnPositionResponse struct {
	Rows []earnPositionRow `json:"rows"`
}

// FlexiblePositions returns all flexible Simple Earn positions.
func (c *SimpleEarnClient) FlexiblePositions(ctx context.Context) ([]domain.RawEarnPosition, error) {
	return c.positions(ctx, flexiblePositionPath)
}

// LockedPositions returns all locked Simple Earn positions, with the
// maturity date when the product reports one.
func (c *SimpleEarnClient) LockedPositions(ctx context.Context) ([]domain.RawEarnPosition, error) {
	return c.positions(ctx, lockedPositionPath)
}

func (c *SimpleEarnClient) positions(ctx context.Context, path string) ([]domain.RawEarnPosition, error) {
	var response earnPositionResponse
	if err := c.get(ctx, path, &response); err != nil {
		return nil, err
	}

	positions := make([]domain.RawEarnPosition, 0, len(response.Rows))
	for _, row := range response.Rows {
		amount, err := decimal.NewFromString(row.TotalAmount)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse earn position amount for %s", row.Asset)
		}

		position := domain.RawEarnPosition{Asset: row.Asset, Amount: amount}
		if row.EndDate > 0 {
			endDate := time.UnixMilli(row.EndDate)
			position.EndDate = &endDate
		}
		positions = append(positions, position)
	}
	return positions, nil
}

func (c *SimpleEarnClient) get(ctx context.Context, path string, out interface{}) error {
	params := url.Values{}
	params.Set("size", earnPageSize)
	params.Set("recvWindow", earnRecvWindow)
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(params.Encode()))
	params.Set("signature", hex.EncodeToString(mac.Sum(nil)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build simple earn request")
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "simple earn request %s failed", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read simple earn response for %s", path)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := new(common.APIError)
		if json.Unmarshal(body, apiErr) == nil && apiErr.Code != 0 {
			return apiErr
		}
		return errors.Errorf("simple earn request %s failed: status %d: %s", path, resp.StatusCode, body)
	}

	return errors.Wrapf(json.Unmarshal(body, out), "failed to decode simple earn response for %s", path)
}
