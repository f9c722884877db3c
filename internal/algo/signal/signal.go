// Package signal turns a forecast into an entry decision.
package signal

import (
	"fmt"
	gomath "math"

	"github.com/drakos74/ar-trader/internal/math"
	"github.com/drakos74/ar-trader/internal/model"
)

const (
	// DefaultThresholdPct is the percentage move the forecast needs to trigger an entry.
	DefaultThresholdPct = 0.2
	// DefaultSignalThreshold is the absolute price difference for the Diff evaluator.
	DefaultSignalThreshold = 0.5
)

// Mode selects the entry evaluator.
type Mode string

const (
	// PercentMode compares the relative forecasted move.
	PercentMode Mode = "percent"
	// DiffMode compares the absolute forecasted move.
	DiffMode Mode = "diff"
)

// Evaluator decides on entering a position from the forecasted and the current price.
type Evaluator interface {
	Evaluate(forecast, current float64) model.Decision
}

// New creates the evaluator for the given mode.
func New(mode Mode, thresholdPct, signalThreshold float64) (Evaluator, error) {
	switch mode {
	case PercentMode, "":
		return Percent{Threshold: thresholdPct}, nil
	case DiffMode:
		return Diff{Threshold: signalThreshold}, nil
	}
	return nil, fmt.Errorf("unknown entry mode '%s'", mode)
}

// Percent enters when the forecast deviates from the current price by more than the threshold percentage.
type Percent struct {
	Threshold float64
}

// Evaluate evaluates the entry conditions.
func (p Percent) Evaluate(forecast, current float64) model.Decision {
	if !valid(forecast) || !valid(current) {
		return model.Wait
	}
	return decide(math.Pct(forecast, current), p.Threshold, current)
}

// Diff enters when the forecast deviates from the current price by more than an absolute amount.
type Diff struct {
	Threshold float64
}

// Evaluate evaluates the entry conditions.
func (d Diff) Evaluate(forecast, current float64) model.Decision {
	if !valid(forecast) || !valid(current) {
		return model.Wait
	}
	return decide(forecast-current, d.Threshold, current)
}

// decide applies the threshold with strict inequality on both sides.
func decide(move, threshold, price float64) model.Decision {
	if move > threshold {
		return model.Decision{Side: model.Long, Price: price}
	} else if move < -threshold {
		return model.Decision{Side: model.Short, Price: price}
	}
	return model.Wait
}

func valid(price float64) bool {
	return price > 0 && !gomath.IsInf(price, 0) && !gomath.IsNaN(price)
}
