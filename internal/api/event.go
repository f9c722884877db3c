package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drakos74/ar-trader/internal/model"
)

// Kind is the type of an event.
type Kind string

const (
	// BufferFill is emitted when a closed candle price enters the buffer.
	BufferFill Kind = "buffer-fill"
	// Forecast is emitted for every new forecast.
	Forecast Kind = "forecast"
	// InsufficientData is emitted when a trading cycle is skipped during the buffer warm-up.
	InsufficientData Kind = "insufficient-data"
	// InvalidPrice is emitted for rejected ticks.
	InvalidPrice Kind = "invalid-price"
	// Entry is emitted when a position is opened.
	Entry Kind = "entry"
	// TrailingExit is emitted when the trailing exit level tightens.
	TrailingExit Kind = "trailing-exit"
	// Exit is emitted when a position is closed.
	Exit Kind = "exit"
	// CooldownStart is emitted when the cooldown timer starts.
	CooldownStart Kind = "cooldown-start"
	// CooldownEnd is emitted when the cooldown timer expires.
	CooldownEnd Kind = "cooldown-end"
)

// Event is a trader event for notifications and monitoring.
type Event struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"kind"`
	Coin     model.Coin `json:"coin"`
	Time     time.Time  `json:"time"`
	Price    float64    `json:"price,omitempty"`
	Forecast float64    `json:"forecast,omitempty"`
	Side     model.Side `json:"side,omitempty"`
	Level    float64    `json:"level,omitempty"`
	Position string     `json:"position,omitempty"`
	Size     int        `json:"size,omitempty"`
	PnL      float64    `json:"pnl,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// NewEvent creates a new event of the given kind.
func NewEvent(kind Kind) *Event {
	return &Event{
		ID:   uuid.New().String(),
		Kind: kind,
	}
}

// ForCoin assigns a coin to the event.
func (e *Event) ForCoin(coin model.Coin) *Event {
	e.Coin = coin
	return e
}

// At sets the event time.
func (e *Event) At(t time.Time) *Event {
	e.Time = t
	return e
}

// WithPrice sets the price related to the event.
func (e *Event) WithPrice(price float64) *Event {
	e.Price = price
	return e
}

// WithForecast sets the forecasted price.
func (e *Event) WithForecast(forecast float64) *Event {
	e.Forecast = forecast
	return e
}

// WithPosition adds the position details to the event.
func (e *Event) WithPosition(p model.Position) *Event {
	e.Position = p.ID
	e.Side = p.Side
	return e
}

// WithLevel sets the price level related to the event e.g. the trailing exit.
func (e *Event) WithLevel(level float64) *Event {
	e.Level = level
	return e
}

// WithSize sets the buffer size.
func (e *Event) WithSize(size int) *Event {
	e.Size = size
	return e
}

// WithPnL sets the percentage profit of a closed position.
func (e *Event) WithPnL(pnl float64) *Event {
	e.PnL = pnl
	return e
}

// WithMessage adds a free text message to the event.
func (e *Event) WithMessage(format string, args ...interface{}) *Event {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Create returns an immutable instance of the event.
func (e *Event) Create() Event {
	return *e
}
