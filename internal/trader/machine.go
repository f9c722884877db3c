// Package trader runs the single position trading cycle for one coin.
package trader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/internal/algo/forecast"
	"github.com/drakos74/ar-trader/internal/algo/risk"
	"github.com/drakos74/ar-trader/internal/algo/signal"
	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/buffer"
	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/storage"
)

// ErrInvalidPrice is returned for ticks that carry an unusable price.
var ErrInvalidPrice = errors.New("invalid price")

// Machine keeps the price buffer, the latest forecast and the open position of a coin.
// All the state transitions happen under the same lock,
// including the asynchronous end of the cooldown.
type Machine struct {
	coin      model.Coin
	buffer    *buffer.Buffer
	model     *forecast.AR
	evaluator signal.Evaluator
	risk      risk.Manager

	cooldown time.Duration
	enforce  bool

	sink      api.Sink
	afterFunc AfterFunc
	// tickTime measures the cooldown on the tick timestamps instead of a timer.
	tickTime bool

	lock     sync.Mutex
	state    State
	position *model.Position
	forecast *forecast.Result
	last     float64
	ticks    int
	timer    Timer
	until    time.Time
	// round identifies the latest cooldown, so that stale timers are ignored.
	round int
}

// NewMachine creates a new machine for the given coin.
func NewMachine(coin model.Coin, settings Settings) (*Machine, error) {
	ar, err := forecast.New(settings.Coefficients...)
	if err != nil {
		return nil, fmt.Errorf("could not create forecast model for %s: %w", coin, err)
	}
	if settings.Capacity < ar.Order()+1 {
		return nil, fmt.Errorf("buffer capacity %d cannot hold %d prices for order %d", settings.Capacity, ar.Order()+1, ar.Order())
	}
	evaluator, err := signal.New(settings.Mode, settings.ThresholdPct, settings.SignalThreshold)
	if err != nil {
		return nil, fmt.Errorf("could not create evaluator for %s: %w", coin, err)
	}
	return &Machine{
		coin:      coin,
		buffer:    buffer.NewBuffer(settings.Capacity),
		model:     ar,
		evaluator: evaluator,
		risk:      risk.New(settings.StopLossPct, settings.TrailingOffsetPct),
		cooldown:  settings.Cooldown,
		enforce:   settings.EnforceCooldown,
		sink:      api.Sinks{},
		afterFunc: afterFunc,
		state:     Flat,
	}, nil
}

// WithSink adds the sink that receives every event of the machine.
func (m *Machine) WithSink(sink api.Sink) *Machine {
	m.sink = sink
	return m
}

// WithTimer replaces the cooldown scheduler.
func (m *Machine) WithTimer(f AfterFunc) *Machine {
	m.afterFunc = f
	return m
}

// WithTickTime ends the cooldown on the first tick past its expiry,
// so that replays of recorded ticks do not depend on the wall clock.
func (m *Machine) WithTickTime() *Machine {
	m.tickTime = true
	return m
}

// Coin returns the coin of the machine.
func (m *Machine) Coin() model.Coin {
	return m.coin
}

// Prefill loads historical close prices into the buffer and computes the first forecast.
// No trading decision is taken for these prices.
func (m *Machine) Prefill(t time.Time, closes ...float64) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	valid := make([]float64, 0, len(closes))
	for _, price := range closes {
		if !model.NewTick(m.coin, price, t).Valid() {
			log.Warn().Str("coin", string(m.coin)).Float64("price", price).Msg("skipping invalid historical price")
			continue
		}
		valid = append(valid, price)
	}
	if evicted := m.buffer.Fill(valid...); evicted > 0 {
		log.Debug().Str("coin", string(m.coin)).Int("evicted", evicted).Msg("history exceeds buffer capacity")
	}
	if last, ok := m.buffer.Last(); ok {
		m.last = last
	}

	events := []api.Event{api.NewEvent(api.BufferFill).
		ForCoin(m.coin).
		At(t).
		WithPrice(m.last).
		WithSize(m.buffer.Len()).
		WithMessage("prefilled %d of %d prices, capacity %d", m.buffer.Len(), len(closes), m.buffer.Cap()).
		Create()}

	events, err := m.updateForecast(t, events)
	m.publish(events)
	if err != nil && !errors.Is(err, forecast.ErrInsufficientData) {
		return err
	}
	return nil
}

// Process processes a single tick and returns the emitted events.
// Events are also published to the sink in the same order.
func (m *Machine) Process(tick model.Tick) ([]api.Event, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	events, err := m.process(tick)
	m.publish(events)
	return events, err
}

func (m *Machine) process(tick model.Tick) ([]api.Event, error) {
	events := make([]api.Event, 0)
	if !tick.Valid() {
		events = append(events, m.event(api.InvalidPrice, tick).
			WithMessage("rejected price %v", tick.Price).
			Create())
		return events, fmt.Errorf("tick for %s at %v: %w", tick.Coin, tick.Price, ErrInvalidPrice)
	}
	m.ticks++
	m.last = tick.Price

	if m.tickTime && m.state == Cooldown && !tick.Time.Before(m.until) {
		m.state = Flat
		events = append(events, m.event(api.CooldownEnd, tick).Create())
	}

	if tick.Closed {
		m.buffer.Push(tick.Price)
		events = append(events, m.event(api.BufferFill, tick).
			WithSize(m.buffer.Len()).
			Create())
		var err error
		events, err = m.updateForecast(tick.Time, events)
		if errors.Is(err, forecast.ErrInsufficientData) {
			return events, nil
		} else if err != nil {
			return events, err
		}
	}

	switch m.state {
	case InPosition:
		return m.manage(tick, events), nil
	case Cooldown:
		if m.enforce {
			return events, nil
		}
	}
	return m.enter(tick, events)
}

func (m *Machine) updateForecast(t time.Time, events []api.Event) ([]api.Event, error) {
	result, err := m.model.Forecast(m.buffer.Get())
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			events = append(events, api.NewEvent(api.InsufficientData).
				ForCoin(m.coin).
				At(t).
				WithSize(m.buffer.Len()).
				WithMessage("%d prices needed", m.model.Order()+1).
				Create())
		}
		return events, err
	}
	m.forecast = &result
	events = append(events, api.NewEvent(api.Forecast).
		ForCoin(m.coin).
		At(t).
		WithPrice(result.LastPrice).
		WithForecast(result.Price).
		WithMessage("return %.6f", result.Return).
		Create())
	return events, nil
}

func (m *Machine) enter(tick model.Tick, events []api.Event) ([]api.Event, error) {
	if m.forecast == nil {
		events = append(events, m.event(api.InsufficientData, tick).
			WithSize(m.buffer.Len()).
			WithMessage("no forecast yet").
			Create())
		return events, nil
	}

	decision := m.evaluator.Evaluate(m.forecast.Price, tick.Price)
	if !decision.Enter() {
		return events, nil
	}

	exit, err := m.risk.ExitConditions(decision.Price, decision.Side, m.forecast.Price)
	if err != nil {
		return events, fmt.Errorf("could not open position for %s: %w", m.coin, err)
	}
	m.cancelCooldown()
	m.position = model.OpenPosition(m.coin, decision.Side, decision.Price, exit.StopLoss, exit.TrailingExitActivation, tick.Time)
	m.state = InPosition
	events = append(events, m.event(api.Entry, tick).
		WithForecast(m.forecast.Price).
		WithPosition(*m.position).
		WithLevel(exit.StopLoss).
		WithMessage("stop-loss %.4f activation %.4f", exit.StopLoss, exit.TrailingExitActivation).
		Create())
	return events, nil
}

func (m *Machine) manage(tick model.Tick, events []api.Event) []api.Event {
	p := m.position
	if !tick.Closed {
		if level, ok := m.risk.TrailingExit(p.Side, tick.Price, p.TrailingExitActivation); ok && p.Tighten(level) {
			events = append(events, m.event(api.TrailingExit, tick).
				WithPosition(*p).
				WithLevel(level).
				Create())
		}
	}

	if !p.ShouldExit(tick.Price) {
		return events
	}

	closed := p.Copy()
	m.position = nil
	events = append(events, m.event(api.Exit, tick).
		WithPosition(closed).
		WithPnL(closed.PnL(tick.Price)).
		Create())

	m.state = Cooldown
	m.round++
	if m.tickTime {
		m.until = tick.Time.Add(m.cooldown)
	} else {
		round := m.round
		m.timer = m.afterFunc(m.cooldown, func() {
			m.endCooldown(round)
		})
	}
	events = append(events, m.event(api.CooldownStart, tick).
		WithMessage("cooldown for %v", m.cooldown).
		Create())
	return events
}

func (m *Machine) endCooldown(round int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if round != m.round || m.state != Cooldown {
		return
	}
	m.state = Flat
	m.timer = nil
	m.publish([]api.Event{api.NewEvent(api.CooldownEnd).
		ForCoin(m.coin).
		At(time.Now()).
		Create()})
}

// cancelCooldown invalidates a pending cooldown timer.
func (m *Machine) cancelCooldown() {
	m.round++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Snapshot returns the current state of the machine.
func (m *Machine) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	s := Snapshot{
		Coin:       m.coin,
		State:      m.state,
		BufferSize: m.buffer.Len(),
		LastPrice:  m.last,
		Ticks:      m.ticks,
	}
	if m.position != nil {
		p := m.position.Copy()
		s.Position = &p
	}
	if m.forecast != nil {
		f := *m.forecast
		s.Forecast = &f
	}
	return s
}

// SnapshotKey is the storage key of the coin snapshot.
func SnapshotKey(coin model.Coin) storage.Key {
	return storage.Key{
		Pair:  string(coin),
		Label: "snapshot",
	}
}

// Save stores the current snapshot of the machine.
func (m *Machine) Save(store storage.Persistence) error {
	s := m.Snapshot()
	if err := store.Store(SnapshotKey(s.Coin), s); err != nil {
		return fmt.Errorf("could not save snapshot for %s: %w", s.Coin, err)
	}
	return nil
}

// Close stops any pending cooldown timer.
func (m *Machine) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.cancelCooldown()
}

func (m *Machine) event(kind api.Kind, tick model.Tick) *api.Event {
	return api.NewEvent(kind).
		ForCoin(m.coin).
		At(tick.Time).
		WithPrice(tick.Price)
}

func (m *Machine) publish(events []api.Event) {
	for _, e := range events {
		if err := m.sink.Publish(context.Background(), e); err != nil {
			log.Error().Err(err).Str("coin", string(m.coin)).Str("kind", string(e.Kind)).Msg("could not publish event")
		}
	}
}
