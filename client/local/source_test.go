package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/ar-trader/internal/model"
	"github.com/drakos74/ar-trader/internal/storage/file/json"
)

func newTicks(coin model.Coin, prices ...float64) []model.Tick {
	now := time.Unix(1700000000, 0)
	ticks := make([]model.Tick, len(prices))
	for i, p := range prices {
		tick := model.NewTick(coin, p, now.Add(time.Duration(i)*time.Second))
		if i%3 == 2 {
			tick = tick.Close()
		}
		ticks[i] = tick
	}
	return ticks
}

func collect(ch <-chan model.Tick) []model.Tick {
	ticks := make([]model.Tick, 0)
	for tick := range ch {
		ticks = append(ticks, tick)
	}
	return ticks
}

func TestSource_Subscribe(t *testing.T) {

	type test struct {
		coin  model.Coin
		ticks int
		err   bool
	}

	btc := newTicks(model.BTC, 100, 101, 102, 103)
	eth := newTicks(model.ETH, 10, 11)
	source := NewSource(append(btc, eth...)...)

	tests := map[string]test{
		"btc":     {coin: model.BTC, ticks: 4},
		"eth":     {coin: model.ETH, ticks: 2},
		"unknown": {coin: model.Coin("XRPUSDT"), err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ch, err := source.Subscribe(context.Background(), tt.coin, time.Minute)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			ticks := collect(ch)
			assert.Len(t, ticks, tt.ticks)
			for _, tick := range ticks {
				assert.Equal(t, tt.coin, tick.Coin)
			}
		})
	}

	assert.Equal(t, []model.Coin{model.BTC, model.ETH}, source.Coins())
}

func TestSource_Cancel(t *testing.T) {
	source := NewSource(newTicks(model.BTC, 100, 101, 102, 103)...)
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := source.Subscribe(ctx, model.BTC, time.Minute)
	require.NoError(t, err)

	<-ch
	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, time.Millisecond)
}

func TestRecorder_RoundTrip(t *testing.T) {
	ticks := newTicks(model.BTC, 100, 101.5, 99.25, 102, 100)
	journal := json.NewLogger(t.TempDir())

	recorder := NewRecorder(NewSource(ticks...), journal)
	ch, err := recorder.Subscribe(context.Background(), model.BTC, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, ticks, collect(ch))

	loaded, err := Load(journal.File(Key(model.BTC)))
	require.NoError(t, err)
	require.Len(t, loaded, len(ticks))
	for i, tick := range ticks {
		assert.Equal(t, tick.Coin, loaded[i].Coin)
		assert.Equal(t, tick.Price, loaded[i].Price)
		assert.Equal(t, tick.Closed, loaded[i].Closed)
		assert.True(t, tick.Time.Equal(loaded[i].Time))
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ticks.log")
	content := `{"coin":"BTCUSDT","price":100,"closed":false,"time":"2023-11-14T22:13:20Z"}
{"coin":"BTCUSDT","price":101,"closed":true,"time":"2023-11-14T22:14:00Z"}
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	ticks, err := Load(file)
	require.NoError(t, err)
	require.Len(t, ticks, 2)
	assert.True(t, ticks[1].Closed)
	assert.Equal(t, 101.0, ticks[1].Price)

	_, err = Load(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}
