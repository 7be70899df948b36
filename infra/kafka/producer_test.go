package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewProducer(t *testing.T) {
	p := NewProducer(Config{
		Brokers:      []string{"127.0.0.1:9092"},
		Topic:        "mazewal.runs",
		WriteTimeout: 3 * time.Second,
		MaxAttempts:  4,
	})
	defer p.Close()

	assert.Equal(t, "mazewal.runs", p.Topic())
	assert.False(t, p.writer.Async)
	assert.Equal(t, kafka.RequireAll, p.writer.RequiredAcks)
	assert.Equal(t, 3*time.Second, p.writer.WriteTimeout)
	assert.Equal(t, 4, p.writer.MaxAttempts)
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
	assert.False(t, p.writer.AllowAutoTopicCreation)
}
