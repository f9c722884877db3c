package binance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/ar-trader/client/binance/model"
	coinmodel "github.com/drakos74/ar-trader/internal/model"
)

type fakeKlines struct {
	klines   []*binance.Kline
	err      error
	symbol   string
	interval string
	limit    int
}

func (f *fakeKlines) Klines(ctx context.Context, symbol, interval string, limit int) ([]*binance.Kline, error) {
	f.symbol = symbol
	f.interval = interval
	f.limit = limit
	return f.klines, f.err
}

func TestHistory_FetchRecentCloses(t *testing.T) {
	now := time.UnixMilli(1700000090000)

	type test struct {
		api      *fakeKlines
		interval time.Duration
		count    int
		closes   []float64
		limit    int
		err      bool
	}

	tests := map[string]test{
		"drop-open-candle": {
			api: &fakeKlines{klines: []*binance.Kline{
				{CloseTime: 1699999979999, Close: "101"},
				{CloseTime: 1700000039999, Close: "102"},
				{CloseTime: 1700000099999, Close: "103"},
			}},
			interval: time.Minute,
			count:    2,
			closes:   []float64{101, 102},
			limit:    3,
		},
		"all-closed": {
			api: &fakeKlines{klines: []*binance.Kline{
				{CloseTime: 1699999979999, Close: "101"},
				{CloseTime: 1700000039999, Close: "102"},
				{CloseTime: 1700000089999, Close: "103"},
			}},
			interval: time.Minute,
			count:    2,
			closes:   []float64{102, 103},
			limit:    3,
		},
		"api-error": {
			api:      &fakeKlines{err: errors.New("rate limited")},
			interval: time.Minute,
			count:    2,
			err:      true,
		},
		"bad-interval": {
			api:      &fakeKlines{},
			interval: 7 * time.Minute,
			count:    2,
			err:      true,
		},
		"nothing": {
			api:      &fakeKlines{},
			interval: time.Minute,
			count:    0,
			closes:   []float64{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			history := &History{
				converter: model.NewConverter(),
				api:       tt.api,
				now:       func() time.Time { return now },
			}
			closes, err := history.FetchRecentCloses(context.Background(), coinmodel.BTC, tt.interval, tt.count)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.closes, closes)
			if tt.limit > 0 {
				assert.Equal(t, tt.limit, tt.api.limit)
				assert.Equal(t, "BTCUSDT", tt.api.symbol)
				assert.Equal(t, "1m", tt.api.interval)
			}
		})
	}
}
