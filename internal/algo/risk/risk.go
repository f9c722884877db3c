// Package risk calculates the exit levels of a position.
package risk

import (
	"errors"
	"fmt"

	"github.com/drakos74/ar-trader/internal/model"
)

const (
	// DefaultStopLossPct is the stop loss distance from the entry price.
	DefaultStopLossPct = 1.0
	// DefaultTrailingOffsetPct is the trailing exit distance from the observed price.
	DefaultTrailingOffsetPct = 0.1
)

// ErrInvalidSide is returned for a side other than long or short.
var ErrInvalidSide = errors.New("invalid side")

// Exit holds the exit levels for a new position.
type Exit struct {
	StopLoss               float64 `json:"stop_loss"`
	TrailingExitActivation float64 `json:"trailing_exit_activation"`
}

// Manager calculates stop loss and trailing exit levels.
type Manager struct {
	stopLoss float64
	trailing float64
}

// New creates a new risk manager.
// Both arguments are percentages e.g. 1 for 1%.
func New(stopLossPct, trailingOffsetPct float64) Manager {
	return Manager{
		stopLoss: stopLossPct / 100,
		trailing: trailingOffsetPct / 100,
	}
}

// ExitConditions calculates the stop loss and the trailing exit activation level for a new position.
// The activation level sits half way between the entry and the forecasted price.
func (m Manager) ExitConditions(entryPrice float64, side model.Side, forecastedPrice float64) (Exit, error) {
	activation := (forecastedPrice + entryPrice) / 2
	switch side {
	case model.Long:
		return Exit{
			StopLoss:               entryPrice * (1 - m.stopLoss),
			TrailingExitActivation: activation,
		}, nil
	case model.Short:
		return Exit{
			StopLoss:               entryPrice * (1 + m.stopLoss),
			TrailingExitActivation: activation,
		}, nil
	}
	return Exit{}, fmt.Errorf("cannot calculate exit for side '%s': %w", side, ErrInvalidSide)
}

// TrailingExit returns the trailing exit level for the observed price,
// or false if the price has not reached the activation level yet.
func (m Manager) TrailingExit(side model.Side, observedPrice, activation float64) (float64, bool) {
	switch side {
	case model.Long:
		if observedPrice >= activation {
			return observedPrice * (1 - m.trailing), true
		}
	case model.Short:
		if observedPrice <= activation {
			return observedPrice * (1 + m.trailing), true
		}
	}
	return 0, false
}
