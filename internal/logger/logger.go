// Package logger configures the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config log_level to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Init creates a JSON logger writing to w, tags every record with the
// component name and installs it as the slog default.
func Init(component string, level slog.Level, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("component", component),
	)
	slog.SetDefault(logger)

	return logger
}

// OrderAttrs returns the attributes identifying one order in log records.
func OrderAttrs(date fmt.Stringer, orderNumber int) []any {
	return []any{slog.String("date", date.String()), slog.Int("order_number", orderNumber)}
}
