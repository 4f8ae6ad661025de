// Package kafka publishes user notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"freight/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Writer is the part of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the JSON body written for every notification.
type Message struct {
	UserID     string            `json:"userId"`
	Event      string            `json:"event"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type Publisher struct {
	w   Writer
	now func() time.Time
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{w: w, now: time.Now}
}

// Notify keys the message by recipient so that one user's notifications stay
// ordered within a partition.
func (p *Publisher) Notify(ctx context.Context, n ports.Notification) error {
	body, err := json.Marshal(Message{
		UserID:     n.UserID.String(),
		Event:      n.Event,
		Payload:    n.Payload,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}

	if err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.UserID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(n.Event)},
		},
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

func (p *Publisher) Close() error {
	return errors.Wrap(p.w.Close(), "kafka close")
}
