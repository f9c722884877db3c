package time

import (
	"encoding/json"
	"errors"
	"time"
)

// FromMilli converts unix milliseconds to time.
func FromMilli(milli int64) time.Time {
	return time.UnixMilli(milli)
}

// ToMilli converts the time to unix milliseconds.
func ToMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// Duration is a time.Duration encoded as a human readable string.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}
