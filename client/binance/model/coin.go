package model

import (
	"strings"

	"github.com/drakos74/ar-trader/internal/model"
)

// Coin creates a new coin converter for binance.
func Coin() CoinConverter {
	return CoinConverter{}
}

// CoinConverter converts from the internal coin representation to binance specific model
type CoinConverter struct {
}

// Pair transforms the internal coin type to an exchange traded pair.
func (c CoinConverter) Pair(p model.Coin) string {
	return strings.ToUpper(string(p))
}

// Coin transforms the binance symbol to the internal coin type.
func (c CoinConverter) Coin(p string) model.Coin {
	return model.Parse(p)
}
