package coin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/trader"
)

const logEvery = 1000

// Engine feeds the ticks of a source to one trading machine per coin.
type Engine struct {
	source   api.Source
	machines []*trader.Machine
	interval time.Duration
	autoStop api.Condition
	count    map[string]int
	lock     sync.Mutex
}

// NewEngine creates a new Engine
func NewEngine(source api.Source, machines ...*trader.Machine) *Engine {
	return &Engine{
		source:   source,
		machines: machines,
		interval: time.Minute,
		autoStop: api.NonStop,
		count:    make(map[string]int),
	}
}

// Interval sets the candle interval for the subscriptions.
func (e *Engine) Interval(interval time.Duration) *Engine {
	e.interval = interval
	return e
}

// Stop sets the condition that stops the processing of each coin.
func (e *Engine) Stop(condition api.Condition) *Engine {
	e.autoStop = condition
	return e
}

// Count returns the number of processed ticks for the coin.
func (e *Engine) Count(coin string) int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.count[coin]
}

// Run subscribes to every machine coin and processes the ticks of each coin in order.
// It returns when all the streams are closed or the context is done.
func (e *Engine) Run(ctx context.Context) error {
	if len(e.machines) == 0 {
		return errors.New("no machines to run")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := new(sync.WaitGroup)
	for _, m := range e.machines {
		ticks, err := e.source.Subscribe(ctx, m.Coin(), e.interval)
		if err != nil {
			return fmt.Errorf("could not subscribe to %s: %w", m.Coin(), err)
		}
		wg.Add(1)
		go func(m *trader.Machine) {
			defer wg.Done()
			e.run(ctx, m, ticks)
		}(m)
	}

	log.Info().Int("machines", len(e.machines)).Dur("interval", e.interval).Msg("engine started")
	wg.Wait()
	log.Info().Msg("engine stopped")
	return nil
}

func (e *Engine) run(ctx context.Context, m *trader.Machine, ticks <-chan model.Tick) {
	defer m.Close()
	coin := string(m.Coin())
	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-ticks:
			if !ok {
				log.Info().Str("coin", coin).Int("count", e.Count(coin)).Msg("tick stream closed")
				return
			}
			if _, err := m.Process(tick); err != nil {
				log.Warn().Err(err).Str("coin", coin).Msg("could not process tick")
			}
			c := e.inc(coin)
			if c%logEvery == 0 {
				log.Info().
					Str("coin", coin).
					Time("time", tick.Time).
					Int("count", c).
					Msg("processed ticks")
			}
			if e.autoStop(tick, c) {
				log.Info().Str("coin", coin).Int("count", c).Msg("stop condition reached")
				return
			}
		}
	}
}

func (e *Engine) inc(coin string) int {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.count[coin]++
	return e.count[coin]
}
