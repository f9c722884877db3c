package model

import (
	"fmt"
	"time"
)

var intervals = []struct {
	d time.Duration
	s string
}{
	{time.Minute, "1m"},
	{3 * time.Minute, "3m"},
	{5 * time.Minute, "5m"},
	{15 * time.Minute, "15m"},
	{30 * time.Minute, "30m"},
	{time.Hour, "1h"},
	{2 * time.Hour, "2h"},
	{4 * time.Hour, "4h"},
	{6 * time.Hour, "6h"},
	{8 * time.Hour, "8h"},
	{12 * time.Hour, "12h"},
	{24 * time.Hour, "1d"},
	{3 * 24 * time.Hour, "3d"},
	{7 * 24 * time.Hour, "1w"},
}

func Time() TimeConverter {
	return TimeConverter{}
}

// TimeConverter converts between durations and binance kline intervals.
type TimeConverter struct {
}

// From returns the kline interval for the duration.
func (t TimeConverter) From(duration time.Duration) (string, error) {
	for _, i := range intervals {
		if i.d == duration {
			return i.s, nil
		}
	}
	return "", fmt.Errorf("unsupported kline interval: %v", duration)
}

// To returns the duration of the kline interval.
func (t TimeConverter) To(s string) (time.Duration, error) {
	for _, i := range intervals {
		if i.s == s {
			return i.d, nil
		}
	}
	return 0, fmt.Errorf("unknown kline interval: %s", s)
}
