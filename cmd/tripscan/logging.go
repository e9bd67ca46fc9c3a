package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"

	"github.com/vegasq/tripscan/config"
)

// setupLogging installs the default slog logger. Records go to w as text and,
// when cfg.File is set, also to that file as JSON. The returned closer, if
// any, closes the log file.
func setupLogging(cfg config.LogConfig, w io.Writer) (io.Closer, error) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Level, err)
		}
	}
	if os.Getenv("DEBUG") != "" || os.Getenv("TRIPSCAN_DEBUG") != "" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var (
		handler slog.Handler = slog.NewTextHandler(w, opts)
		closer  io.Closer
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slogmulti.Fanout(handler, slog.NewJSONHandler(f, opts))
		closer = f
	}

	slog.SetDefault(slog.New(handler).With(slog.String("run", uuid.NewString())))
	return closer, nil
}
