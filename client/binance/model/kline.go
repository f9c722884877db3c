package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	coinmodel "github.com/drakos74/ar-trader/internal/model"
	cointime "github.com/drakos74/ar-trader/internal/time"
)

// FromKLine converts a kline stream event to a tick.
// The close price of the kline is the latest price and IsFinal marks the candle close.
func FromKLine(event *binance.WsKlineEvent) (coinmodel.Tick, error) {
	if event == nil {
		return coinmodel.Tick{}, fmt.Errorf("empty kline event")
	}
	closePrice, err := strconv.ParseFloat(event.Kline.Close, 64)
	if err != nil {
		return coinmodel.Tick{}, fmt.Errorf("could not parse close price '%s': %w", event.Kline.Close, err)
	}
	t := event.Time
	if event.Kline.IsFinal {
		t = event.Kline.EndTime
	}
	tick := coinmodel.NewTick(Coin().Coin(event.Symbol), closePrice, cointime.FromMilli(t))
	if event.Kline.IsFinal {
		tick = tick.Close()
	}
	return tick, nil
}

// FromKlines extracts up to count close prices of the closed klines in chronological order.
// Klines that close after now are still open and are dropped.
func FromKlines(klines []*binance.Kline, now time.Time, count int) ([]float64, error) {
	closes := make([]float64, 0, len(klines))
	for _, k := range klines {
		if k == nil || cointime.FromMilli(k.CloseTime).After(now) {
			continue
		}
		price, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse close price '%s': %w", k.Close, err)
		}
		closes = append(closes, price)
	}
	if len(closes) > count {
		closes = closes[len(closes)-count:]
	}
	return closes, nil
}
