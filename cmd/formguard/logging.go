package main

import (
	"io"
	"log/slog"
	"strings"

	"middleware-formguard/middleware/dupguard/infra"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger monta o slog do processo. Registros Warn+ passam pelo throttle,
// que é onde caem os avisos de duplicada.
func newLogger(cfg config, w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: parseLevel(cfg.logLevel)}

	var h slog.Handler
	if cfg.logFormat == "json" {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	h = infra.NewThrottledHandler(h, cfg.logDuplicatesPerSec, cfg.logDuplicatesBurst, slog.LevelWarn)
	return slog.New(h).With("component", "formguard")
}
