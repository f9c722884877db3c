// Package binance streams live ticks and historical candles from the binance exchange.
package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/client/binance/model"
	coinmodel "github.com/drakos74/ar-trader/internal/model"
)

const (
	Name = "binance"

	defaultMinBackoff = 3 * time.Second
	defaultMaxBackoff = time.Minute
	backoffFactor     = 2
	backoffJitter     = 0.1
)

// ServeFunc opens a kline stream.
// It has the signature of binance.WsKlineServe.
type ServeFunc func(symbol, interval string, handler binance.WsKlineHandler, errHandler binance.ErrHandler) (doneC, stopC chan struct{}, err error)

// Source streams the kline updates of the exchange as ticks.
type Source struct {
	converter  model.Converter
	serve      ServeFunc
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewSource creates a new source for the binance kline streams.
func NewSource() *Source {
	return &Source{
		converter:  model.NewConverter(),
		serve:      binance.WsKlineServe,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

// WithServe allows to override the remote stream.
// to be used mostly for local testing
func (s *Source) WithServe(serve ServeFunc) *Source {
	s.serve = serve
	return s
}

// WithBackoff sets the reconnect delays.
func (s *Source) WithBackoff(min, max time.Duration) *Source {
	s.minBackoff = min
	s.maxBackoff = max
	return s
}

// Subscribe opens the kline stream for the coin and keeps it alive until the context is done.
// A dropped stream is re-opened with exponential backoff.
func (s *Source) Subscribe(ctx context.Context, coin coinmodel.Coin, interval time.Duration) (<-chan coinmodel.Tick, error) {
	i, err := s.converter.Time.From(interval)
	if err != nil {
		return nil, fmt.Errorf("could not subscribe to %s: %w", coin, err)
	}
	pair := s.converter.Coin.Pair(coin)
	out := make(chan coinmodel.Tick, 100)
	go s.supervise(ctx, pair, i, out)
	return out, nil
}

// reconnect creates the delays between reconnect attempts.
// It never gives up, the context decides when to stop.
func (s *Source) reconnect() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.minBackoff
	b.MaxInterval = s.maxBackoff
	b.Multiplier = backoffFactor
	b.RandomizationFactor = backoffJitter
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (s *Source) supervise(ctx context.Context, pair, interval string, out chan<- coinmodel.Tick) {
	defer close(out)
	retry := s.reconnect()
	attempt := 0
	for {
		attempt++
		doneC, stopC, err := s.serve(pair, interval, handler(ctx, out), errHandler(pair))
		if err != nil {
			delay := retry.NextBackOff()
			log.Error().
				Err(err).
				Str("pair", pair).
				Int("attempt", attempt).
				Dur("retry-in", delay).
				Msg("could not connect to kline stream")
			if !wait(ctx, delay) {
				return
			}
			continue
		}
		retry.Reset()
		log.Info().Str("pair", pair).Str("interval", interval).Int("attempt", attempt).Msg("kline stream connected")

		select {
		case <-ctx.Done():
			close(stopC)
			<-doneC
			log.Info().Str("pair", pair).Msg("kline stream stopped")
			return
		case <-doneC:
		}

		delay := retry.NextBackOff()
		log.Warn().Str("pair", pair).Dur("retry-in", delay).Msg("kline stream closed")
		if !wait(ctx, delay) {
			return
		}
	}
}

func handler(ctx context.Context, out chan<- coinmodel.Tick) binance.WsKlineHandler {
	return func(event *binance.WsKlineEvent) {
		tick, err := model.FromKLine(event)
		if err != nil {
			log.Error().
				Err(err).
				Str("kline", fmt.Sprintf("%+v", event)).
				Msg("could not parse kline")
			return
		}
		select {
		case out <- tick:
		case <-ctx.Done():
		}
	}
}

func errHandler(pair string) binance.ErrHandler {
	return func(err error) {
		log.Warn().Err(err).Str("pair", pair).Msg("kline stream error")
	}
}

// wait waits for the delay and returns false if the context is done before.
func wait(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
