package api

import (
	"context"
	"time"

	"github.com/drakos74/ar-trader/internal/model"
)

// Source exposes the live tick stream of an exchange.
// Implementations deliver ticks in order and resume transparently after a disconnect.
type Source interface {
	Subscribe(ctx context.Context, coin model.Coin, interval time.Duration) (<-chan model.Tick, error)
}

// History exposes the closed candles of an exchange.
type History interface {
	// FetchRecentCloses returns at most count close prices in chronological order,
	// excluding the currently open candle.
	FetchRecentCloses(ctx context.Context, coin model.Coin, interval time.Duration, count int) ([]float64, error)
}

// Sink receives the events emitted by the trader.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Condition defines a boundary condition to stop execution based on the consumed ticks.
type Condition func(tick model.Tick, numberOfTicks int) bool

// Counter stops the execution after the given number of ticks.
func Counter(limit int) Condition {
	return func(tick model.Tick, numberOfTicks int) bool {
		return numberOfTicks > 0 && numberOfTicks >= limit
	}
}

// Until stops the execution once a tick after the given time arrives.
func Until(t time.Time) Condition {
	return func(tick model.Tick, numberOfTicks int) bool {
		return tick.Time.After(t)
	}
}

// Any stops the execution as soon as one of the conditions holds.
// Without conditions it never stops.
func Any(conditions ...Condition) Condition {
	return func(tick model.Tick, numberOfTicks int) bool {
		for _, c := range conditions {
			if c(tick, numberOfTicks) {
				return true
			}
		}
		return false
	}
}

// NonStop never stops the execution.
func NonStop(tick model.Tick, numberOfTicks int) bool {
	return false
}
