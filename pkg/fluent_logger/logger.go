package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config describes how the service reaches Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" or "fluent-bit" inside docker compose
	Port      int    // usually 24224
	TagPrefix string // every record is tagged "<TagPrefix>.<level>"
	Timeout   time.Duration
	// Async buffers records in memory and ships them from a background goroutine.
	Async bool
}

// NewClient builds a Fluent client. There is no handshake: a bad address only
// shows up on the first Post.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 24224
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Timeout:    cfg.Timeout,
		Async:      cfg.Async,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}
