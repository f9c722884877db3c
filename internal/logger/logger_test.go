package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	type test struct {
		cfg   Config
		level zerolog.Level
		err   bool
	}

	tests := map[string]test{
		"console": {
			cfg:   Config{Level: "debug", Format: ConsoleFormat},
			level: zerolog.DebugLevel,
		},
		"json": {
			cfg:   Config{Level: "warn", Format: JsonFormat},
			level: zerolog.WarnLevel,
		},
		"bad-level": {
			cfg: Config{Level: "loud"},
			err: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			closer, err := Setup(tt.cfg)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.level, zerolog.GlobalLevel())
			assert.NoError(t, closer.Close())
		})
	}
}

func TestSetup_File(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	file := filepath.Join(t.TempDir(), "trader.log")
	closer, err := Setup(Config{Level: "info", Format: JsonFormat, File: file, MaxSize: 1})
	require.NoError(t, err)

	log.Info().Str("coin", "BTCUSDT").Msg("written to file")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"coin":"BTCUSDT"`)
	assert.Contains(t, string(b), "written to file")
}
