package model

import (
	"math"
	"time"
)

// Tick is a single price observation of the stream.
// Closed marks the final price of a candle.
type Tick struct {
	Coin   Coin      `json:"coin"`
	Price  float64   `json:"price"`
	Closed bool      `json:"closed"`
	Time   time.Time `json:"time"`
}

// NewTick creates a new intra-candle tick.
func NewTick(coin Coin, price float64, t time.Time) Tick {
	return Tick{
		Coin:  coin,
		Price: price,
		Time:  t,
	}
}

// Close marks the tick as the closing price of a candle.
func (t Tick) Close() Tick {
	t.Closed = true
	return t
}

// Valid checks that the price can be used for calculations.
func (t Tick) Valid() bool {
	return t.Price > 0 && !math.IsInf(t.Price, 0) && !math.IsNaN(t.Price)
}

// Decision is the outcome of an entry evaluation.
type Decision struct {
	Side  Side    `json:"side"`
	Price float64 `json:"price"`
}

// Wait is the void decision.
var Wait = Decision{}

// Enter checks if the decision asks for a new position.
func (d Decision) Enter() bool {
	return d.Side.Valid()
}
