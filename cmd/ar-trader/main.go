package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/client/binance"
	"github.com/drakos74/ar-trader/client/local"
	"github.com/drakos74/ar-trader/external/kafka"
	"github.com/drakos74/ar-trader/infra/config"
	coin "github.com/drakos74/ar-trader/internal"
	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/logger"
	"github.com/drakos74/ar-trader/internal/metrics"
	"github.com/drakos74/ar-trader/internal/server"
	"github.com/drakos74/ar-trader/internal/storage/file/json"
	"github.com/drakos74/ar-trader/internal/trader"
	"github.com/drakos74/ar-trader/user/telegram"
)

type notifier interface {
	api.Sink
	Run(ctx context.Context)
}

type publisher interface {
	api.Sink
	io.Closer
}

var (
	newNotifier = func(cfg config.Telegram) (notifier, error) {
		n, err := telegram.NewNotifier(cfg.Token, cfg.ChatID)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	newPublisher = func(cfg config.Kafka) (publisher, error) {
		p, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
)

func main() {
	path := flag.String("config", config.DefaultPath, "path to the yaml config")
	flag.Parse()

	cfg := config.MustLoad(*path)
	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("ar-trader failed")
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	sinks, closeSinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	history := binance.NewHistory()
	machines := make([]*trader.Machine, 0)
	for _, c := range cfg.Coins() {
		m, err := trader.NewMachine(c, cfg.Settings())
		if err != nil {
			return fmt.Errorf("could not create trader for %s: %w", c, err)
		}
		m.WithSink(sinks)
		closes, err := history.FetchRecentCloses(ctx, c, cfg.Timeframe, cfg.Buffer.Capacity)
		if err != nil {
			log.Warn().Err(err).Str("coin", string(c)).Msg("starting without history")
		} else if err := m.Prefill(time.Now(), closes...); err != nil {
			log.Warn().Err(err).Str("coin", string(c)).Msg("could not prefill buffer")
		}
		machines = append(machines, m)
	}

	var source api.Source = binance.NewSource().WithBackoff(cfg.Reconnect.Min, cfg.Reconnect.Max)
	if cfg.Record.Dir != "" {
		source = local.NewRecorder(source, json.NewLogger(cfg.Record.Dir))
		log.Info().Str("dir", cfg.Record.Dir).Msg("recording ticks")
	}

	if cfg.Server.Enabled {
		srv := server.NewServer("ar-trader", cfg.Server.Port).
			Add(server.Live(), server.StatusRoute(machines...)).
			WithMetrics()
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("server stopped")
			}
		}()
	}

	engine := coin.NewEngine(source, machines...).Interval(cfg.Timeframe)
	if err := engine.Run(ctx); err != nil {
		return fmt.Errorf("error running engine: %w", err)
	}

	if cfg.Record.Dir != "" {
		store := json.NewJsonBlob(cfg.Record.Dir, "snapshots")
		for _, m := range machines {
			if err := m.Save(store); err != nil {
				log.Error().Err(err).Msg("could not save snapshot")
			}
		}
	}
	return nil
}

// buildSinks creates the configured sinks.
// The returned func closes them, on error the already created ones are closed before returning.
func buildSinks(ctx context.Context, cfg *config.Config) (api.Sinks, func(), error) {
	sinks := api.Sinks{api.LogSink{}, metrics.Observer}
	closers := make([]io.Closer, 0)
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Error().Err(err).Msg("could not close sink")
			}
		}
	}

	if cfg.Kafka.Enabled {
		p, err := newPublisher(cfg.Kafka)
		if err != nil {
			return nil, nil, fmt.Errorf("could not create kafka publisher: %w", err)
		}
		closers = append(closers, p)
		sinks = append(sinks, p)
	}
	if cfg.Telegram.Enabled {
		n, err := newNotifier(cfg.Telegram)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("could not create telegram notifier: %w", err)
		}
		go n.Run(ctx)
		sinks = append(sinks, n)
	}
	return sinks, closeAll, nil
}
