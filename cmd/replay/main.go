package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/client/local"
	"github.com/drakos74/ar-trader/infra/config"
	coin "github.com/drakos74/ar-trader/internal"
	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/logger"
	"github.com/drakos74/ar-trader/internal/storage/file/json"
	"github.com/drakos74/ar-trader/internal/trader"
	user "github.com/drakos74/ar-trader/user/local"
)

// Report is the outcome of a replay.
type Report struct {
	Ticks     string            `json:"ticks"`
	Snapshots []trader.Snapshot `json:"snapshots"`
	Events    []api.Event       `json:"events"`
}

func main() {
	path := flag.String("config", config.DefaultPath, "path to the yaml config")
	ticksFile := flag.String("ticks", "", "recorded ticks file")
	out := flag.String("out", "", "directory for the replay report")
	limit := flag.Int("n", 0, "max ticks per coin, 0 for all")
	until := flag.String("until", "", "stop after the first tick later than this RFC3339 time")
	messages := flag.String("messages", "", "file for the notification messages")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal().Err(err).Str("path", *path).Msg("could not load config")
	}
	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up logger")
	}
	defer closer.Close()

	if *ticksFile == "" {
		log.Fatal().Msg("no ticks file given")
	}
	u, err := user.NewUser(*messages)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create user")
	}
	defer u.Close()

	stop, err := condition(*limit, *until)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid stop condition")
	}
	report, err := replay(context.Background(), cfg.Settings(), *ticksFile, stop, u)
	if err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}

	for _, s := range report.Snapshots {
		log.Info().
			Str("coin", string(s.Coin)).
			Str("state", string(s.State)).
			Int("ticks", s.Ticks).
			Str("events", summary(report.Events, s)).
			Msg("replay finished")
	}

	if *out != "" {
		name := strings.TrimSuffix(filepath.Base(*ticksFile), filepath.Ext(*ticksFile))
		if err := json.Save(*out, name+"_replay", report); err != nil {
			log.Fatal().Err(err).Msg("could not save report")
		}
	}
}

// replay feeds the recorded ticks through one machine per coin.
// The report lists the coins in sorted order with the events of each coin grouped together,
// so the same recording always produces the same report.
func replay(ctx context.Context, settings trader.Settings, file string, stop api.Condition, sinks ...api.Sink) (Report, error) {
	ticks, err := local.Load(file)
	if err != nil {
		return Report{}, err
	}
	source := local.NewSource(ticks...)
	machines := make([]*trader.Machine, 0)
	collectors := make([]*api.Collector, 0)
	for _, c := range source.Coins() {
		m, err := trader.NewMachine(c, settings)
		if err != nil {
			return Report{}, err
		}
		collector := new(api.Collector)
		sink := append(api.Sinks{api.LogSink{}, collector}, sinks...)
		machines = append(machines, m.WithTickTime().WithSink(sink))
		collectors = append(collectors, collector)
	}
	if len(machines) == 0 {
		return Report{}, fmt.Errorf("no ticks in %s", file)
	}

	engine := coin.NewEngine(source, machines...)
	if stop != nil {
		engine.Stop(stop)
	}
	if err := engine.Run(ctx); err != nil {
		return Report{}, err
	}

	report := Report{Ticks: file}
	for i, m := range machines {
		report.Snapshots = append(report.Snapshots, m.Snapshot())
		report.Events = append(report.Events, collectors[i].Events()...)
	}
	return report, nil
}

func condition(limit int, until string) (api.Condition, error) {
	conditions := make([]api.Condition, 0)
	if limit > 0 {
		conditions = append(conditions, api.Counter(limit))
	}
	if until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return nil, fmt.Errorf("could not parse until '%s': %w", until, err)
		}
		conditions = append(conditions, api.Until(t))
	}
	return api.Any(conditions...), nil
}

func summary(events []api.Event, s trader.Snapshot) string {
	count := make(map[api.Kind]int)
	for _, e := range events {
		if e.Coin == s.Coin {
			count[e.Kind]++
		}
	}
	return fmt.Sprintf("entries=%d exits=%d trailing=%d", count[api.Entry], count[api.Exit], count[api.TrailingExit])
}
