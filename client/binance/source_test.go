package binance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coinmodel "github.com/drakos74/ar-trader/internal/model"
)

type fakeStream struct {
	events []*binance.WsKlineEvent
	drop   bool
	err    error
}

type fakeExchange struct {
	lock    sync.Mutex
	streams []fakeStream
	symbols []string
}

func (f *fakeExchange) serve(symbol, interval string, handler binance.WsKlineHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error) {
	f.lock.Lock()
	i := len(f.symbols)
	f.symbols = append(f.symbols, symbol)
	f.lock.Unlock()

	stream := fakeStream{}
	if i < len(f.streams) {
		stream = f.streams[i]
	}
	if stream.err != nil {
		return nil, nil, stream.err
	}
	doneC = make(chan struct{})
	stopC = make(chan struct{})
	go func() {
		defer close(doneC)
		for _, e := range stream.events {
			handler(e)
		}
		if stream.drop {
			errHandler(errors.New("connection reset"))
			return
		}
		<-stopC
	}()
	return doneC, stopC, nil
}

func (f *fakeExchange) calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.symbols)
}

func kline(price string, final bool) *binance.WsKlineEvent {
	return &binance.WsKlineEvent{
		Symbol: "BTCUSDT",
		Time:   time.Now().UnixMilli(),
		Kline: binance.WsKline{
			Close:   price,
			IsFinal: final,
			EndTime: time.Now().UnixMilli(),
		},
	}
}

func TestSource_Subscribe(t *testing.T) {
	exchange := &fakeExchange{
		streams: []fakeStream{
			{err: errors.New("connection refused")},
			{events: []*binance.WsKlineEvent{kline("100", false), kline("bad", false), kline("101", true)}, drop: true},
			{events: []*binance.WsKlineEvent{kline("102", false)}},
		},
	}
	source := NewSource().
		WithServe(exchange.serve).
		WithBackoff(time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks, err := source.Subscribe(ctx, coinmodel.BTC, time.Minute)
	require.NoError(t, err)

	received := make([]coinmodel.Tick, 0)
	for i := 0; i < 3; i++ {
		select {
		case tick := <-ticks:
			received = append(received, tick)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
	assert.Equal(t, 100.0, received[0].Price)
	assert.False(t, received[0].Closed)
	assert.Equal(t, 101.0, received[1].Price)
	assert.True(t, received[1].Closed)
	assert.Equal(t, 102.0, received[2].Price)
	assert.Equal(t, coinmodel.BTC, received[2].Coin)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ticks
		return !ok
	}, time.Second, time.Millisecond)
	assert.Equal(t, 3, exchange.calls())
	assert.Equal(t, []string{"BTCUSDT", "BTCUSDT", "BTCUSDT"}, exchange.symbols)
}

func TestSource_UnsupportedInterval(t *testing.T) {
	exchange := new(fakeExchange)
	_, err := NewSource().WithServe(exchange.serve).Subscribe(context.Background(), coinmodel.BTC, 7*time.Minute)
	assert.Error(t, err)
	assert.Equal(t, 0, exchange.calls())
}

func TestSource_CancelWhileReconnecting(t *testing.T) {
	exchange := &fakeExchange{
		streams: []fakeStream{
			{err: errors.New("connection refused")},
		},
	}
	source := NewSource().
		WithServe(exchange.serve).
		WithBackoff(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	ticks, err := source.Subscribe(ctx, coinmodel.ETH, time.Minute)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return exchange.calls() == 1
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case _, ok := <-ticks:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed")
	}
}

func TestSource_Reconnect(t *testing.T) {
	retry := NewSource().WithBackoff(3*time.Second, time.Minute).reconnect()

	assert.Equal(t, 3*time.Second, retry.InitialInterval)
	assert.Equal(t, time.Minute, retry.MaxInterval)
	assert.Equal(t, 2.0, retry.Multiplier)
	assert.Equal(t, time.Duration(0), retry.MaxElapsedTime)

	expected := []time.Duration{
		3 * time.Second,
		6 * time.Second,
		12 * time.Second,
		24 * time.Second,
		48 * time.Second,
		time.Minute,
		time.Minute,
	}
	for _, d := range expected {
		delay := retry.NextBackOff()
		assert.NotEqual(t, backoff.Stop, delay)
		assert.InDelta(t, float64(d), float64(delay), float64(d)*backoffJitter+1)
	}

	retry.Reset()
	assert.InDelta(t, float64(3*time.Second), float64(retry.NextBackOff()), float64(3*time.Second)*backoffJitter+1)
}
