package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/ar-trader/internal/algo/signal"
	"github.com/drakos74/ar-trader/internal/model"
)

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT"}, c.Symbols)
	assert.Equal(t, time.Minute, c.Timeframe)
	assert.Equal(t, 100, c.Buffer.Capacity)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, c.Forecast.Coefficients)
	assert.Equal(t, "percent", c.Entry.Mode)
	assert.Equal(t, 0.2, c.Entry.ThresholdPct)
	assert.Equal(t, 0.5, c.Entry.SignalThreshold)
	assert.Equal(t, 1.0, c.Risk.StopLossPct)
	assert.Equal(t, 0.1, c.Risk.TrailingOffsetPct)
	assert.Equal(t, 5.0, c.Cooldown.Seconds)
	assert.True(t, c.Cooldown.Enforce)
	assert.Equal(t, 3*time.Second, c.Reconnect.Min)
	assert.Equal(t, time.Minute, c.Reconnect.Max)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 6021, c.Server.Port)
	assert.False(t, c.Telegram.Enabled)
	assert.False(t, c.Kafka.Enabled)
	assert.Equal(t, "trader-events", c.Kafka.Topic)

	s := c.Settings()
	assert.Equal(t, 5*time.Second, s.Cooldown)
	assert.Equal(t, signal.PercentMode, s.Mode)
	assert.True(t, s.EnforceCooldown)
}

func TestParse(t *testing.T) {

	type test struct {
		yaml  string
		env   map[string]string
		err   bool
		check func(t *testing.T, c *Config)
	}

	tests := map[string]test{
		"override-values": {
			yaml: `
symbols: [btc/usdt, ETHUSDT]
timeframe: 5m
forecast:
  coefficients: [0.5, 0.3, 0.1, 0.1]
entry:
  mode: diff
cooldown:
  seconds: 0.5
  enforce: false
`,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []model.Coin{model.BTC, model.ETH}, c.Coins())
				assert.Equal(t, 5*time.Minute, c.Timeframe)
				assert.Equal(t, []float64{0.5, 0.3, 0.1, 0.1}, c.Forecast.Coefficients)
				s := c.Settings()
				assert.Equal(t, signal.DiffMode, s.Mode)
				assert.Equal(t, 500*time.Millisecond, s.Cooldown)
				assert.False(t, s.EnforceCooldown)
				// untouched values keep their defaults
				assert.Equal(t, 100, s.Capacity)
			},
		},
		"env-overrides": {
			yaml: `
telegram:
  enabled: true
kafka:
  enabled: true
`,
			env: map[string]string{
				"TRADER_SYMBOLS":     "ETHUSDT, BTCUSDT ,",
				"TELEGRAM_BOT_TOKEN": "token",
				"TELEGRAM_CHAT_ID":   "-1001",
				"KAFKA_BROKERS":      "k1:9092,k2:9092",
				"LOG_LEVEL":          "DEBUG",
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, []string{"ETHUSDT", "BTCUSDT"}, c.Symbols)
				assert.Equal(t, "token", c.Telegram.Token)
				assert.Equal(t, int64(-1001), c.Telegram.ChatID)
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
				assert.Equal(t, "debug", c.Log.Level)
			},
		},
		"bad-chat-id": {
			env: map[string]string{"TELEGRAM_CHAT_ID": "abc"},
			err: true,
		},
		"telegram-without-token": {
			yaml: "telegram:\n  enabled: true\n  chat_id: 1\n",
			err:  true,
		},
		"unknown-mode": {
			yaml: "entry:\n  mode: magic\n",
			err:  true,
		},
		"no-symbols": {
			yaml: "symbols: []\n",
			err:  true,
		},
		"negative-stop-loss": {
			yaml: "risk:\n  stop_loss_pct: -1\n",
			err:  true,
		},
		"small-buffer": {
			yaml: "buffer:\n  capacity: 4\n",
			err:  true,
		},
		"reconnect-range": {
			yaml: "reconnect:\n  min: 1m\n  max: 3s\n",
			err:  true,
		},
		"bad-log-level": {
			yaml: "log:\n  level: loud\n",
			err:  true,
		},
		"invalid-yaml": {
			yaml: "symbols: [\n",
			err:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			c, err := Parse([]byte(tt.yaml))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("trader.yaml")
	require.NoError(t, err)
	assert.Equal(t, []model.Coin{model.BTC}, c.Coins())
	assert.Equal(t, time.Minute, c.Timeframe)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "trader.yaml")
	require.NoError(t, os.WriteFile(file, []byte("symbols: [ETHUSDT]\n"), 0600))
	c = MustLoad(file)
	assert.Equal(t, []model.Coin{model.ETH}, c.Coins())

	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
