// Package config loads mazewal settings from the environment. Command-line
// flags are layered on top by cmd/mazewal.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	JournalFormat   string `env:"MAZEWAL_JOURNAL_FORMAT" envDefault:"text"`
	JournalSync     bool   `env:"MAZEWAL_JOURNAL_SYNC" envDefault:"true"`
	JournalTruncate bool   `env:"MAZEWAL_JOURNAL_TRUNCATE" envDefault:"false"`
	VerifyPrevious  bool   `env:"MAZEWAL_VERIFY_PREVIOUS" envDefault:"false"`
	MaxDepth        int    `env:"MAZEWAL_MAX_DEPTH" envDefault:"0"`

	StoreDir    string `env:"MAZEWAL_STORE_DIR"`
	MetricsFile string `env:"MAZEWAL_METRICS_FILE"`

	PublishBrokers  []string      `env:"MAZEWAL_PUBLISH_BROKERS" envSeparator:","`
	PublishTopic    string        `env:"MAZEWAL_PUBLISH_TOPIC" envDefault:"mazewal.runs"`
	PublishDriver   string        `env:"MAZEWAL_PUBLISH_DRIVER" envDefault:"sarama"`
	PublishTimeout  time.Duration `env:"MAZEWAL_PUBLISH_TIMEOUT" envDefault:"10s"`
	PublishRetryMax uint32        `env:"MAZEWAL_PUBLISH_RETRY_MAX" envDefault:"5"`

	LogLevel  string `env:"MAZEWAL_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MAZEWAL_LOG_FORMAT" envDefault:"text"`
}

// Parse loads Config from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a logger writing to w as described by LogLevel and
// LogFormat.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.LogFormat)
}
