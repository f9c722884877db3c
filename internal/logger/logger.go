// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ConsoleFormat = "console"
	JsonFormat    = "json"
)

// Config defines the log output.
// File output is rotated, and always in json.
type Config struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format     string `yaml:"format" default:"console" validate:"oneof=console json"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size" default:"100" validate:"gt=0"`
	MaxBackups int    `yaml:"max_backups" default:"3" validate:"gte=0"`
	MaxAge     int    `yaml:"max_age" default:"28" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Setup replaces the global logger according to the config.
// The returned closer releases the log file.
func Setup(cfg Config) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("could not parse log level '%s': %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.Format == ConsoleFormat {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}
