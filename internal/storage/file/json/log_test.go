package json

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/ar-trader/internal/storage"
)

type Event struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func newEvent(i int) Event {
	return Event{
		Name:  "test",
		ID:    uuid.New().String(),
		Index: i,
	}
}

func TestLogger_Append(t *testing.T) {
	logger := NewLogger(t.TempDir())

	k := storage.Key{
		Pair:  "pair",
		Label: "label",
	}

	events := make([]Event, 0)
	for i := 0; i < 10; i++ {
		ev := newEvent(i)
		events = append(events, ev)
		err := logger.Append(k, ev)
		assert.NoError(t, err)
	}

	loaded, err := ReadLog[Event](logger.File(k))
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestReadLog(t *testing.T) {

	type test struct {
		content string
		events  int
		err     error
	}

	tests := map[string]test{
		"empty": {
			content: "",
		},
		"blank-lines": {
			content: "{\"index\":1}\n\n{\"index\":2}\n",
			events:  2,
		},
		"corrupt": {
			content: "{\"index\":1}\n{index\n",
			err:     storage.CouldNotLoadErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "events.log")
			require.NoError(t, os.WriteFile(file, []byte(tt.content), 0600))
			events, err := ReadLog[Event](file)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, events, tt.events)
		})
	}

	_, err := ReadLog[Event](filepath.Join(t.TempDir(), "missing.log"))
	assert.ErrorIs(t, err, storage.NotFoundErr)
}

func TestBlobStorage(t *testing.T) {
	blob := NewJsonBlob(t.TempDir(), "table")
	k := storage.Key{Pair: "pair", Label: "label"}

	var missing Event
	err := blob.Load(k, &missing)
	assert.ErrorIs(t, err, storage.NotFoundErr)

	ev := newEvent(7)
	require.NoError(t, blob.Store(k, ev))

	var loaded Event
	require.NoError(t, blob.Load(k, &loaded))
	assert.Equal(t, ev, loaded)
}
