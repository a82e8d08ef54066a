package clients

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earnTestClient(serverURL string) *SimpleEarnClient {
	c := NewSimpleEarnClient("test-key", "test-secret")
	c.baseURL = serverURL
	return c
}

func TestSimpleEarnClient_FlexiblePositions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, flexiblePositionPath, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))

		query := r.URL.Query()
		assert.NotEmpty(t, query.Get("timestamp"))

		// signature must cover every parameter except itself
		signed := r.URL.Query()
		signature := signed.Get("signature")
		signed.Del("signature")
		mac := hmac.New(sha256.New, []byte("test-secret"))
		mac.Write([]byte(signed.Encode()))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), signature)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[
			{"asset":"ETH","totalAmount":"2.50000000"},
			{"asset":"USDT","totalAmount":"150.00000000"}
		]}`))
	}))
	defer server.Close()

	positions, err := earnTestClient(server.URL).FlexiblePositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, "ETH", positions[0].Asset)
	assert.True(t, positions[0].Amount.Equal(decimal.NewFromFloat(2.5)))
	assert.Nil(t, positions[0].EndDate)
}

func TestSimpleEarnClient_LockedPositions(t *testing.T) {
	endDate := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, lockedPositionPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[
			{"asset":"BTC","totalAmount":"1.00000000","endDate":` + "1796083200000" + `}
		]}`))
	}))
	defer server.Close()

	positions, err := earnTestClient(server.URL).LockedPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)

	require.NotNil(t, positions[0].EndDate)
	assert.True(t, endDate.Equal(positions[0].EndDate.UTC()))
}

func TestSimpleEarnClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`))
	}))
	defer server.Close()

	_, err := earnTestClient(server.URL).FlexiblePositions(context.Background())
	require.Error(t, err)

	apiErr := new(common.APIError)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int64(-2015), apiErr.Code)
}

func TestSimpleEarnClient_BadAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[{"asset":"ETH","totalAmount":"not-a-number"}]}`))
	}))
	defer server.Close()

	_, err := earnTestClient(server.URL).FlexiblePositions(context.Background())
	assert.Error(t, err)
}

func TestIsSymbolNotFound(t *testing.T) {
	assert.True(t, IsSymbolNotFound(&common.APIError{Code: -1121, Message: "Invalid symbol."}))
	assert.False(t, IsSymbolNotFound(&common.APIError{Code: -1003}))
	assert.False(t, IsSymbolNotFound(nil))
	assert.False(t, IsSymbolNotFound(context.Canceled))
}
