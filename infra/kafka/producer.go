// Package kafka publishes run summaries with segmentio/kafka-go.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	// MaxAttempts per message inside the writer; 0 keeps the kafka-go default.
	MaxAttempts     int
	AutoCreateTopic bool
}

// Producer writes keyed messages to one topic. Messages with the same key
// (run id) land on the same partition.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg Config) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           cfg.WriteTimeout,
			MaxAttempts:            cfg.MaxAttempts,
			AllowAutoTopicCreation: cfg.AutoCreateTopic,
		},
	}
}

// Publish blocks until all in-sync replicas have the message.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Topic() string { return p.writer.Topic }

func (p *Producer) Close() error {
	return p.writer.Close()
}
