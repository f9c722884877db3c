// Package local replays recorded ticks and records live ones.
package local

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/storage/file/json"
)

// Source serves recorded ticks per coin in their original order.
type Source struct {
	ticks map[model.Coin][]model.Tick
	delay time.Duration
}

// NewSource creates a source for the given ticks.
func NewSource(ticks ...model.Tick) *Source {
	tt := make(map[model.Coin][]model.Tick)
	for _, tick := range ticks {
		tt[tick.Coin] = append(tt[tick.Coin], tick)
	}
	return &Source{ticks: tt}
}

// WithDelay adds a pause between consecutive ticks.
func (s *Source) WithDelay(delay time.Duration) *Source {
	s.delay = delay
	return s
}

// Coins returns the coins with recorded ticks in sorted order.
func (s *Source) Coins() []model.Coin {
	cc := make([]model.Coin, 0, len(s.ticks))
	for c := range s.ticks {
		cc = append(cc, c)
	}
	sort.Slice(cc, func(i, j int) bool {
		return cc[i] < cc[j]
	})
	return cc
}

// Subscribe streams the recorded ticks of the coin and closes the channel at the end.
// The interval is ignored, ticks are replayed as recorded.
func (s *Source) Subscribe(ctx context.Context, coin model.Coin, interval time.Duration) (<-chan model.Tick, error) {
	ticks, ok := s.ticks[coin]
	if !ok {
		return nil, fmt.Errorf("no ticks recorded for %s", coin)
	}
	out := make(chan model.Tick)
	go func() {
		defer close(out)
		for i, tick := range ticks {
			if i > 0 && s.delay > 0 {
				time.Sleep(s.delay)
			}
			select {
			case out <- tick:
			case <-ctx.Done():
				log.Info().Str("coin", string(coin)).Int("ticks", i).Msg("replay cancelled")
				return
			}
		}
		log.Info().Str("coin", string(coin)).Int("ticks", len(ticks)).Msg("replay finished")
	}()
	return out, nil
}

// Load reads the recorded ticks from a json lines file.
func Load(path string) ([]model.Tick, error) {
	ticks, err := json.ReadLog[model.Tick](path)
	if err != nil {
		return nil, fmt.Errorf("could not load ticks: %w", err)
	}
	return ticks, nil
}
