package time

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilli(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, int64(1700000000123), ToMilli(now))
	assert.True(t, now.Equal(FromMilli(ToMilli(now))))
}

func TestDuration(t *testing.T) {

	type test struct {
		input    string
		duration time.Duration
		err      bool
	}

	tests := map[string]test{
		"string":  {input: `"1m30s"`, duration: 90 * time.Second},
		"number":  {input: `1000`, duration: time.Microsecond},
		"invalid": {input: `"abc"`, err: true},
		"bool":    {input: `true`, err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.duration, d.Duration)
		})
	}

	b, err := json.Marshal(Duration{Duration: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"5s"`, string(b))
}
