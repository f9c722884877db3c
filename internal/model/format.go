package model

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// Formatter is a number formatter interface to format floats to readable strings.
type Formatter interface {
	Format(c Coin, f float64) string
}

// CoinFormatter is a formatter based on the coin
type CoinFormatter struct {
	precision map[Coin]int
}

// NewFormatter creates a formatter with the known coin precisions.
func NewFormatter() CoinFormatter {
	return CoinFormatter{precision: map[Coin]int{
		BTC: 2,
		ETH: 2,
	}}
}

// Format formats the given value for the provided coin.
func (p CoinFormatter) Format(c Coin, f float64) string {
	precision, ok := p.precision[c]
	if !ok {
		precision = 4
		log.Debug().
			Float64("value", f).
			Str("coin", string(c)).
			Int("precision", precision).
			Msg("unknown precision for coin")
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}
