package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/emoji"
	"github.com/drakos74/ar-trader/internal/model"
)

const dateFormat = "Jan _2 15:04:05"

// User is a local user that receives the trader notifications as plain text lines.
// It keeps the messages in memory and optionally appends them to a file.
type User struct {
	logger    *zerolog.Logger
	file      io.Closer
	formatter model.Formatter
	messages  []string
	lock      *sync.RWMutex
}

// NewUser creates a new local user. An empty path keeps the messages only in memory.
func NewUser(path string) (*User, error) {
	u := &User{
		formatter: model.NewFormatter(),
		messages:  make([]string, 0),
		lock:      new(sync.RWMutex),
	}
	if path == "" {
		return u, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not open messages file %s: %w", path, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: dateFormat,
	})
	u.logger = &logger
	u.file = f
	return u, nil
}

// Publish formats the event and stores it as a message.
func (u *User) Publish(_ context.Context, event api.Event) error {
	msg := u.format(event)
	u.lock.Lock()
	defer u.lock.Unlock()
	u.messages = append(u.messages, msg)
	if u.logger != nil {
		u.logger.Info().Time("time", event.Time).Str("kind", string(event.Kind)).Msg(msg)
	}
	return nil
}

// Messages returns a copy of the messages received so far.
func (u *User) Messages() []string {
	u.lock.RLock()
	defer u.lock.RUnlock()
	mm := make([]string, len(u.messages))
	copy(mm, u.messages)
	return mm
}

// Close closes the underlying messages file, if any.
func (u *User) Close() error {
	if u.file == nil {
		return nil
	}
	return u.file.Close()
}

func (u *User) format(event api.Event) string {
	parts := []string{
		fmt.Sprintf("%s %s", emoji.MapKind(event.Kind), event.Coin),
		string(event.Kind),
	}
	if event.Side.Valid() {
		parts = append(parts, fmt.Sprintf("%s %s", emoji.MapSide(event.Side), event.Side))
	}
	if event.Price > 0 {
		parts = append(parts, "@"+u.formatter.Format(event.Coin, event.Price))
	}
	if event.Level > 0 {
		parts = append(parts, "level "+u.formatter.Format(event.Coin, event.Level))
	}
	if event.Kind == api.Exit {
		parts = append(parts, fmt.Sprintf("pnl %.4f%%", event.PnL))
	}
	if event.Message != "" {
		parts = append(parts, event.Message)
	}
	return strings.Join(parts, " ")
}
