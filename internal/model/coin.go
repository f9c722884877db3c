package model

import "strings"

// Coin defines a custom coin type.
// It carries the exchange symbol e.g. BTCUSDT.
type Coin string

const (
	// BTC represents bitcoin against tether
	BTC Coin = "BTCUSDT"
	// ETH represents the ethereum token against tether
	ETH Coin = "ETHUSDT"
)

// Parse creates a coin from a user provided symbol e.g. 'BTC/USDT' or 'btcusdt'.
func Parse(symbol string) Coin {
	s := strings.ReplaceAll(symbol, "/", "")
	s = strings.TrimSpace(strings.ToUpper(s))
	return Coin(s)
}

// Side defines the direction of a position.
type Side byte

const (
	// NoSide defines a missing side.
	NoSide Side = iota
	// Long defines a position that profits from a price increase.
	Long
	// Short defines a position that profits from a price decrease.
	Short
)

// Sign returns the appropriate sign for the given side for mathematical operations.
func (s Side) Sign() float64 {
	switch s {
	case Long:
		return 1.0
	case Short:
		return -1.0
	}
	return 0.0
}

// Valid checks if the side is one of Long or Short.
func (s Side) Valid() bool {
	return s == Long || s == Short
}

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return "none"
}

// MarshalText encodes the side as its name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes the side from its name.
func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "long":
		*s = Long
	case "short":
		*s = Short
	default:
		*s = NoSide
	}
	return nil
}
