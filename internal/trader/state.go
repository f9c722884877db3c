package trader

import (
	"time"

	"github.com/drakos74/ar-trader/internal/algo/forecast"
	"github.com/drakos74/ar-trader/internal/algo/risk"
	"github.com/drakos74/ar-trader/internal/algo/signal"
	"github.com/drakos74/ar-trader/internal/model"
)

// State is the trading state of a machine.
type State string

const (
	// Flat means there is no open position.
	Flat State = "flat"
	// InPosition means there is exactly one open position.
	InPosition State = "in-position"
	// Cooldown follows an exit until the cooldown timer expires.
	Cooldown State = "cooldown"
)

// Settings holds the parameters of a machine.
type Settings struct {
	Capacity          int
	Coefficients      []float64
	Mode              signal.Mode
	ThresholdPct      float64
	SignalThreshold   float64
	StopLossPct       float64
	TrailingOffsetPct float64
	Cooldown          time.Duration
	EnforceCooldown   bool
}

// DefaultSettings returns the settings for an AR(4) model with equal weights.
func DefaultSettings() Settings {
	return Settings{
		Capacity:          100,
		Coefficients:      []float64{0.25, 0.25, 0.25, 0.25},
		Mode:              signal.PercentMode,
		ThresholdPct:      signal.DefaultThresholdPct,
		SignalThreshold:   signal.DefaultSignalThreshold,
		StopLossPct:       risk.DefaultStopLossPct,
		TrailingOffsetPct: risk.DefaultTrailingOffsetPct,
		Cooldown:          5 * time.Second,
		EnforceCooldown:   true,
	}
}

// Snapshot is a point in time view of a machine.
type Snapshot struct {
	Coin       model.Coin       `json:"coin"`
	State      State            `json:"state"`
	Position   *model.Position  `json:"position,omitempty"`
	BufferSize int              `json:"buffer_size"`
	Forecast   *forecast.Result `json:"forecast,omitempty"`
	LastPrice  float64          `json:"last_price"`
	Ticks      int              `json:"ticks"`
}

// Timer is a scheduled function that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d.
type AfterFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
