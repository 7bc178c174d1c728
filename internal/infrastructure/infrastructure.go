// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies domain systems require: logging, lifecycle
// coordination, the completion client, and export storage.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/pkg/completion"
	"github.com/JaimeStill/stance/pkg/lifecycle"
	"github.com/JaimeStill/stance/pkg/storage"
)

// Infrastructure holds the core systems shared by the server and the CLI.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Completion *completion.Client
	Storage    storage.System
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with the log destination supplied by the caller.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := NewLogger(&cfg.Log, w)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lifecycle.New(),
		Logger:     logger,
		Completion: completion.New(&cfg.Completion),
		Storage:    store,
	}, nil
}

// NewLogger builds a slog.Logger writing to w in the configured format and level.
func NewLogger(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
