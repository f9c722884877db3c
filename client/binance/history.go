package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/client/binance/model"
	coinmodel "github.com/drakos74/ar-trader/internal/model"
)

// klines retrieves the candles of a symbol.
type klines interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]*binance.Kline, error)
}

type restAPI struct {
	client *binance.Client
}

func (r restAPI) Klines(ctx context.Context, symbol, interval string, limit int) ([]*binance.Kline, error) {
	return r.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
}

// History retrieves the closed candles of the exchange.
type History struct {
	converter model.Converter
	api       klines
	now       func() time.Time
}

// NewHistory creates a history client for the public market data endpoints.
func NewHistory() *History {
	return &History{
		converter: model.NewConverter(),
		api:       restAPI{client: binance.NewClient("", "")},
		now:       time.Now,
	}
}

// FetchRecentCloses returns the close prices of the latest closed candles in chronological order.
// One more candle than requested is fetched, as the latest one is usually still open.
func (h *History) FetchRecentCloses(ctx context.Context, coin coinmodel.Coin, interval time.Duration, count int) ([]float64, error) {
	if count <= 0 {
		return []float64{}, nil
	}
	i, err := h.converter.Time.From(interval)
	if err != nil {
		return nil, err
	}
	pair := h.converter.Coin.Pair(coin)
	kk, err := h.api.Klines(ctx, pair, i, count+1)
	if err != nil {
		return nil, fmt.Errorf("could not fetch klines for %s: %w", pair, err)
	}
	closes, err := model.FromKlines(kk, h.now(), count)
	if err != nil {
		return nil, fmt.Errorf("could not parse klines for %s: %w", pair, err)
	}
	log.Info().
		Str("pair", pair).
		Str("interval", i).
		Int("klines", len(kk)).
		Int("closes", len(closes)).
		Msg("fetched history")
	return closes, nil
}
