package api

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sinks fans out events to all the given sinks.
// Failing sinks are logged and do not affect the others.
type Sinks []Sink

// Publish publishes the event to all sinks.
func (ss Sinks) Publish(ctx context.Context, event Event) error {
	for _, s := range ss {
		if err := s.Publish(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("kind", string(event.Kind)).
				Str("coin", string(event.Coin)).
				Msg("could not publish event")
		}
	}
	return nil
}

// LogSink writes the events to the global logger.
type LogSink struct{}

// Publish logs the event at a level matching its importance.
func (l LogSink) Publish(_ context.Context, event Event) error {
	var e *zerolog.Event
	switch event.Kind {
	case Entry, Exit, CooldownStart, CooldownEnd, TrailingExit:
		e = log.Info()
	case InvalidPrice:
		e = log.Warn()
	default:
		e = log.Debug()
	}
	e = e.Str("coin", string(event.Coin)).
		Str("kind", string(event.Kind)).
		Time("time", event.Time)
	if event.Price != 0 {
		e = e.Float64("price", event.Price)
	}
	if event.Forecast != 0 {
		e = e.Float64("forecast", event.Forecast)
	}
	if event.Side.Valid() {
		e = e.Str("side", event.Side.String())
	}
	if event.Level != 0 {
		e = e.Float64("level", event.Level)
	}
	if event.Position != "" {
		e = e.Str("position", event.Position)
	}
	if event.Size != 0 {
		e = e.Int("size", event.Size)
	}
	if event.Kind == Exit {
		e = e.Float64("pnl", event.PnL)
	}
	e.Msg(event.Message)
	return nil
}

// Collector keeps all published events in memory.
type Collector struct {
	lock   sync.Mutex
	events []Event
}

// Publish appends the event.
func (c *Collector) Publish(_ context.Context, event Event) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.events = append(c.events, event)
	return nil
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.lock.Lock()
	defer c.lock.Unlock()
	ee := make([]Event, len(c.events))
	copy(ee, c.events)
	return ee
}

// Kinds returns the kinds of the collected events in order.
func (c *Collector) Kinds() []Kind {
	events := c.Events()
	kk := make([]Kind, len(events))
	for i, e := range events {
		kk[i] = e.Kind
	}
	return kk
}
