package model

import (
	"time"

	"github.com/google/uuid"
)

// Position defines an open position details.
// TrailingExit is nil until the trailing exit has been activated.
type Position struct {
	ID                     string    `json:"id"`
	Coin                   Coin      `json:"coin"`
	Side                   Side      `json:"side"`
	EntryPrice             float64   `json:"entry_price"`
	StopLoss               float64   `json:"stop_loss"`
	TrailingExitActivation float64   `json:"trailing_exit_activation"`
	TrailingExit           *float64  `json:"trailing_exit,omitempty"`
	OpenTime               time.Time `json:"open_time"`
}

// OpenPosition creates a position with its exit levels already in place.
func OpenPosition(coin Coin, side Side, entry, stopLoss, activation float64, t time.Time) *Position {
	return &Position{
		ID:                     uuid.New().String(),
		Coin:                   coin,
		Side:                   side,
		EntryPrice:             entry,
		StopLoss:               stopLoss,
		TrailingExitActivation: activation,
		OpenTime:               t,
	}
}

// Tighten stores the given trailing exit level if it is more favorable than the current one.
// For a long position a higher level is more favorable, for a short one a lower level.
func (p *Position) Tighten(level float64) bool {
	if p.TrailingExit != nil {
		current := *p.TrailingExit
		switch p.Side {
		case Long:
			if level <= current {
				return false
			}
		case Short:
			if level >= current {
				return false
			}
		default:
			return false
		}
	}
	p.TrailingExit = &level
	return true
}

// ShouldExit checks if the price hits the stop loss or the trailing exit.
func (p *Position) ShouldExit(price float64) bool {
	switch p.Side {
	case Long:
		return price <= p.StopLoss || (p.TrailingExit != nil && price <= *p.TrailingExit)
	case Short:
		return price >= p.StopLoss || (p.TrailingExit != nil && price >= *p.TrailingExit)
	}
	return false
}

// PnL returns the profit or loss percentage of the position for the given price.
func (p *Position) PnL(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	return 100 * p.Side.Sign() * (price - p.EntryPrice) / p.EntryPrice
}

// Copy returns a detached copy of the position.
func (p *Position) Copy() Position {
	c := *p
	if p.TrailingExit != nil {
		level := *p.TrailingExit
		c.TrailingExit = &level
	}
	return c
}
