package local

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/storage"
)

const recordLabel = "ticks"

// Recorder passes through the ticks of an upstream source and appends them to a journal.
type Recorder struct {
	upstream api.Source
	journal  storage.Journal
}

// NewRecorder creates a new recorder.
func NewRecorder(upstream api.Source, journal storage.Journal) *Recorder {
	return &Recorder{
		upstream: upstream,
		journal:  journal,
	}
}

// Key returns the journal key for the recorded ticks of the coin.
func Key(coin model.Coin) storage.Key {
	return storage.Key{
		Pair:  string(coin),
		Label: recordLabel,
	}
}

// Subscribe subscribes to the upstream source and records every tick before forwarding it.
func (r *Recorder) Subscribe(ctx context.Context, coin model.Coin, interval time.Duration) (<-chan model.Tick, error) {
	ticks, err := r.upstream.Subscribe(ctx, coin, interval)
	if err != nil {
		return nil, err
	}
	out := make(chan model.Tick)
	go func() {
		defer close(out)
		k := Key(coin)
		for tick := range ticks {
			if err := r.journal.Append(k, tick); err != nil {
				log.Error().Err(err).Str("coin", string(coin)).Msg("could not record tick")
			}
			select {
			case out <- tick:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
