// Package kafka publishes the trader events to a kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/drakos74/ar-trader/internal/api"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is an api.Sink writing the events as json, keyed by coin.
type Publisher struct {
	writer writer
	topic  string
}

// NewPublisher creates a new publisher for the given brokers and topic.
// Messages are written asynchronously, delivery failures are logged.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("brokers are required")
	}
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
		BatchTimeout:           100 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Str("topic", topic).Int("messages", len(messages)).Msg("could not deliver events")
			}
		},
	}
	return newPublisher(w, topic), nil
}

func newPublisher(w writer, topic string) *Publisher {
	return &Publisher{
		writer: w,
		topic:  topic,
	}
}

// Publish writes the event to the topic.
func (p *Publisher) Publish(ctx context.Context, event api.Event) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Coin),
		Value: v,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("could not write '%s' event to %s: %w", event.Kind, p.topic, err)
	}
	return nil
}

// Close flushes the pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
