package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. JSON output is for deployed
// environments; anything else falls back to text for local runs. Every
// record carries the service name so the API, worker, and CLI can share
// one log stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "recondash"))
}
