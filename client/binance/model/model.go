// Package model converts between the binance api types and the internal model.
package model

// Converter encapsulates all conversion logic for the binance exchange.
type Converter struct {
	Coin CoinConverter
	Time TimeConverter
}

// NewConverter creates a new converter.
func NewConverter() Converter {
	return Converter{
		Coin: Coin(),
		Time: Time(),
	}
}
