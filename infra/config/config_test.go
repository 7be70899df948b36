package config

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.JournalFormat)
	assert.True(t, cfg.JournalSync)
	assert.False(t, cfg.JournalTruncate)
	assert.Equal(t, "mazewal.runs", cfg.PublishTopic)
	assert.Equal(t, "sarama", cfg.PublishDriver)
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout)
	assert.Empty(t, cfg.PublishBrokers)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("MAZEWAL_JOURNAL_FORMAT", "frame")
	t.Setenv("MAZEWAL_JOURNAL_SYNC", "false")
	t.Setenv("MAZEWAL_MAX_DEPTH", "64")
	t.Setenv("MAZEWAL_PUBLISH_BROKERS", "k1:9092,k2:9092")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "frame", cfg.JournalFormat)
	assert.False(t, cfg.JournalSync)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.PublishBrokers)
}

func TestParseRejectsBadValue(t *testing.T) {
	t.Setenv("MAZEWAL_MAX_DEPTH", "deep")
	_, err := Parse()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := Config{LogLevel: "debug", LogFormat: "json"}.NewLogger(io.Discard)
	assert.NoError(t, err)
	_, err = Config{LogLevel: "loud"}.NewLogger(io.Discard)
	assert.Error(t, err)
	_, err = Config{LogLevel: "info", LogFormat: "xml"}.NewLogger(io.Discard)
	assert.Error(t, err)
}
