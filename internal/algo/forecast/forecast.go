// Package forecast predicts the next price from an autoregressive model over the recent returns.
package forecast

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/drakos74/ar-trader/internal/buffer"
	"github.com/drakos74/ar-trader/internal/math"
)

var (
	// ErrInsufficientData is returned while there are not enough prices for the model order.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNoCoefficients is returned for a model without coefficients.
	ErrNoCoefficients = errors.New("no coefficients")
)

// Result is the outcome of a forecast.
type Result struct {
	Price     float64 `json:"price"`
	Return    float64 `json:"return"`
	LastPrice float64 `json:"last_price"`
}

// AR is an autoregressive model of order k, where k is the number of coefficients.
// coefficients[0] applies to the most recent return.
type AR struct {
	coefficients []float64
}

// New creates a new AR model with the given coefficients.
func New(coefficients ...float64) (*AR, error) {
	if len(coefficients) == 0 {
		return nil, ErrNoCoefficients
	}
	cc := make([]float64, len(coefficients))
	copy(cc, coefficients)
	return &AR{coefficients: cc}, nil
}

// Order returns the model order.
func (ar *AR) Order() int {
	return len(ar.coefficients)
}

// Forecast forecasts the price following the given chronologically ordered prices.
func (ar *AR) Forecast(prices []float64) (Result, error) {
	k := len(ar.coefficients)
	if len(prices) < k+1 {
		return Result{}, fmt.Errorf("need %d prices for order %d but got %d: %w", k+1, k, len(prices), ErrInsufficientData)
	}

	window := prices[len(prices)-k-1:]
	returns := buffer.Reverse(math.Returns(window))

	r := floats.Dot(ar.coefficients, returns)
	last := window[k]
	result := Result{
		Price:     last * (1 + r),
		Return:    r,
		LastPrice: last,
	}

	log.Debug().
		Floats64("returns", returns).
		Floats64("coefficients", ar.coefficients).
		Float64("return", r).
		Float64("last", last).
		Float64("forecast", result.Price).
		Msg("ar forecast")

	return result, nil
}
