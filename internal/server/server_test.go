package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/trader"
)

func newMachine(t *testing.T, coin model.Coin, closes ...float64) *trader.Machine {
	m, err := trader.NewMachine(coin, trader.DefaultSettings())
	require.NoError(t, err)
	require.NoError(t, m.Prefill(time.Now(), closes...))
	return m
}

func TestServer_Routes(t *testing.T) {
	btc := newMachine(t, model.BTC, 100, 101, 99, 102, 100)
	eth := newMachine(t, model.ETH, 10, 11)

	srv := NewServer("test", 0).
		Add(Live(), StatusRoute(btc, eth)).
		WithMetrics()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	type test struct {
		method   string
		path     string
		code     int
		machines int
		body     string
	}

	tests := map[string]test{
		"live": {
			method: http.MethodGet,
			path:   "/data/live",
			code:   http.StatusOK,
			body:   "ok",
		},
		"status": {
			method:   http.MethodGet,
			path:     "/api/status",
			code:     http.StatusOK,
			machines: 2,
		},
		"status-coin": {
			method:   http.MethodGet,
			path:     "/api/status?coin=BTCUSDT",
			code:     http.StatusOK,
			machines: 1,
		},
		"status-unknown-coin": {
			method: http.MethodGet,
			path:   "/api/status?coin=XRPUSDT",
			code:   http.StatusNotFound,
		},
		"wrong-method": {
			method: http.MethodPost,
			path:   "/api/status",
			code:   http.StatusNotImplemented,
		},
		"metrics": {
			method: http.MethodGet,
			path:   "/metrics",
			code:   http.StatusOK,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tt.body != "" {
				assert.Equal(t, tt.body, string(b))
			}
			if tt.machines > 0 {
				var status Status
				require.NoError(t, json.Unmarshal(b, &status))
				assert.Len(t, status.Machines, tt.machines)
			}
		})
	}
}

func TestStatusRoute_Snapshot(t *testing.T) {
	btc := newMachine(t, model.BTC, 100, 101, 99, 102, 100)

	r := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	b, code, err := StatusRoute(btc).Exec(r)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	var status Status
	require.NoError(t, json.Unmarshal(b, &status))
	require.Len(t, status.Machines, 1)
	s := status.Machines[0]
	assert.Equal(t, model.BTC, s.Coin)
	assert.Equal(t, trader.Flat, s.State)
	assert.Equal(t, 5, s.BufferSize)
	require.NotNil(t, s.Forecast)
	assert.InDelta(t, 100.02233017419388, s.Forecast.Price, 1e-9)
}
