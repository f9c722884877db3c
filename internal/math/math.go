package math

import (
	"gonum.org/v1/gonum/floats"
)

// Returns calculates the relative change between consecutive prices.
// The result has one element less than the input,
// fewer than 2 prices produce an empty result.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	n := len(prices) - 1
	rr := make([]float64, n)
	floats.SubTo(rr, prices[1:], prices[:n])
	floats.Div(rr, prices[:n])
	return rr
}

// Pct returns the percentage difference of the value relative to the base.
func Pct(value, base float64) float64 {
	return (value - base) / base * 100
}
