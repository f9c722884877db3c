// Package telegram sends the trader events to a telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/emoji"
	"github.com/drakos74/ar-trader/internal/model"
)

const queueSize = 100

// ErrQueueFull is returned when messages are produced faster than telegram accepts them.
var ErrQueueFull = errors.New("message queue full")

// DefaultKinds are the event kinds sent to the chat.
var DefaultKinds = []api.Kind{api.Entry, api.TrailingExit, api.Exit, api.CooldownEnd, api.InvalidPrice}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier is an api.Sink posting the events to a telegram chat.
// Messages are queued and sent by Run, so that publishing never waits on the network.
type Notifier struct {
	bot       botAPI
	chatID    int64
	kinds     map[api.Kind]bool
	formatter model.Formatter
	queue     chan tgbotapi.MessageConfig
}

// NewNotifier creates a new telegram notifier.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	bot.Buffer = 0
	return newNotifier(bot, chatID), nil
}

func newNotifier(bot botAPI, chatID int64) *Notifier {
	n := &Notifier{
		bot:       bot,
		chatID:    chatID,
		formatter: model.NewFormatter(),
		queue:     make(chan tgbotapi.MessageConfig, queueSize),
	}
	return n.ForKinds(DefaultKinds...)
}

// ForKinds limits the notifications to the given kinds.
func (n *Notifier) ForKinds(kinds ...api.Kind) *Notifier {
	n.kinds = make(map[api.Kind]bool)
	for _, k := range kinds {
		n.kinds[k] = true
	}
	return n
}

// Publish queues the message for the event.
func (n *Notifier) Publish(_ context.Context, event api.Event) error {
	if !n.kinds[event.Kind] {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, n.text(event))
	select {
	case n.queue <- msg:
		return nil
	default:
		return fmt.Errorf("could not queue '%s' event for %s: %w", event.Kind, event.Coin, ErrQueueFull)
	}
}

// Run sends the queued messages until the context is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.queue:
			if _, err := n.bot.Send(msg); err != nil {
				log.Error().Err(err).Int64("chat", n.chatID).Msg("could not send message")
			}
		}
	}
}

func (n *Notifier) text(event api.Event) string {
	lines := []string{
		fmt.Sprintf("%s %s %s", emoji.MapKind(event.Kind), event.Coin, event.Kind),
	}
	if event.Side.Valid() {
		lines = append(lines, fmt.Sprintf("%s %s", emoji.MapSide(event.Side), event.Side))
	}
	if event.Price > 0 {
		lines = append(lines, fmt.Sprintf("price %s", n.formatter.Format(event.Coin, event.Price)))
	}
	if event.Forecast > 0 {
		lines = append(lines, fmt.Sprintf("forecast %s %s", n.formatter.Format(event.Coin, event.Forecast), emoji.MapToSentiment(event.Forecast-event.Price)))
	}
	if event.Level > 0 {
		lines = append(lines, fmt.Sprintf("level %s", n.formatter.Format(event.Coin, event.Level)))
	}
	if event.Kind == api.Exit {
		lines = append(lines, fmt.Sprintf("pnl %.4f%% %s", event.PnL, emoji.MapToSign(event.PnL)))
	}
	if event.Message != "" {
		lines = append(lines, event.Message)
	}
	lines = append(lines, event.Time.Format("15:04:05"))
	return strings.Join(lines, "\n")
}
