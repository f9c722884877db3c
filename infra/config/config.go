// Package config loads the trader configuration from yaml, with defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/drakos74/ar-trader/internal/algo/signal"
	"github.com/drakos74/ar-trader/internal/logger"
	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/trader"
)

// DefaultPath is the location of the config file relative to the repository root.
const DefaultPath = "infra/config/trader.yaml"

const (
	symbolsEnv       = "TRADER_SYMBOLS"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	kafkaBrokersEnv  = "KAFKA_BROKERS"
	logLevelEnv      = "LOG_LEVEL"
)

type Config struct {
	Symbols   []string      `yaml:"symbols" default:"[\"BTCUSDT\"]" validate:"required,min=1,dive,required"`
	Timeframe time.Duration `yaml:"timeframe" default:"1m" validate:"gt=0"`
	Buffer    Buffer        `yaml:"buffer"`
	Forecast  Forecast      `yaml:"forecast"`
	Entry     Entry         `yaml:"entry"`
	Risk      Risk          `yaml:"risk"`
	Cooldown  Cooldown      `yaml:"cooldown"`
	Reconnect Reconnect     `yaml:"reconnect"`
	Log       logger.Config `yaml:"log"`
	Server    Server        `yaml:"server"`
	Telegram  Telegram      `yaml:"telegram"`
	Kafka     Kafka         `yaml:"kafka"`
	Record    Record        `yaml:"record"`
}

type Buffer struct {
	Capacity int `yaml:"capacity" default:"100" validate:"gte=2"`
}

type Forecast struct {
	Coefficients []float64 `yaml:"coefficients" default:"[0.25,0.25,0.25,0.25]" validate:"required,min=1"`
}

type Entry struct {
	Mode            string  `yaml:"mode" default:"percent" validate:"oneof=percent diff"`
	ThresholdPct    float64 `yaml:"threshold_pct" default:"0.2" validate:"gte=0"`
	SignalThreshold float64 `yaml:"signal_threshold" default:"0.5" validate:"gte=0"`
}

type Risk struct {
	StopLossPct       float64 `yaml:"stop_loss_pct" default:"1" validate:"gt=0,lt=100"`
	TrailingOffsetPct float64 `yaml:"trailing_offset_pct" default:"0.1" validate:"gt=0,lt=100"`
}

type Cooldown struct {
	Seconds float64 `yaml:"seconds" default:"5" validate:"gte=0"`
	Enforce bool    `yaml:"enforce" default:"true"`
}

type Reconnect struct {
	Min time.Duration `yaml:"min" default:"3s" validate:"gt=0"`
	Max time.Duration `yaml:"max" default:"1m" validate:"gtefield=Min"`
}

type Server struct {
	Enabled bool `yaml:"enabled" default:"true"`
	Port    int  `yaml:"port" default:"6021" validate:"min=1,max=65535"`
}

type Telegram struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token" validate:"required_if=Enabled true"`
	ChatID  int64  `yaml:"chat_id" validate:"required_if=Enabled true"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers" validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" default:"trader-events" validate:"required"`
}

// Record enables the recording of the live ticks for a later replay.
type Record struct {
	Dir string `yaml:"dir"`
}

// Load loads the config from the given yaml file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// MustLoad loads the config from the given file and panics on any error.
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("could not load config from %s: %s", path, err.Error()))
	}
	log.Info().Str("path", path).Strs("symbols", c.Symbols).Msg("loaded config")
	return c
}

// Parse parses the yaml config on top of the defaults,
// applies the environment overrides and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.override(); err != nil {
		return nil, fmt.Errorf("override config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Buffer.Capacity < len(c.Forecast.Coefficients)+1 {
		return fmt.Errorf("buffer capacity %d cannot hold %d prices for %d coefficients",
			c.Buffer.Capacity, len(c.Forecast.Coefficients)+1, len(c.Forecast.Coefficients))
	}
	return nil
}

func (c *Config) override() error {
	if v := os.Getenv(symbolsEnv); v != "" {
		c.Symbols = split(v)
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", telegramChatEnv, err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv(kafkaBrokersEnv); v != "" {
		c.Kafka.Brokers = split(v)
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

func split(v string) []string {
	ss := make([]string, 0)
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ss = append(ss, s)
		}
	}
	return ss
}

// Coins returns the configured symbols as coins.
func (c *Config) Coins() []model.Coin {
	coins := make([]model.Coin, len(c.Symbols))
	for i, s := range c.Symbols {
		coins[i] = model.Parse(s)
	}
	return coins
}

// Settings returns the trader settings.
func (c *Config) Settings() trader.Settings {
	return trader.Settings{
		Capacity:          c.Buffer.Capacity,
		Coefficients:      c.Forecast.Coefficients,
		Mode:              signal.Mode(c.Entry.Mode),
		ThresholdPct:      c.Entry.ThresholdPct,
		SignalThreshold:   c.Entry.SignalThreshold,
		StopLossPct:       c.Risk.StopLossPct,
		TrailingOffsetPct: c.Risk.TrailingOffsetPct,
		Cooldown:          time.Duration(c.Cooldown.Seconds * float64(time.Second)),
		EnforceCooldown:   c.Cooldown.Enforce,
	}
}
