package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-cz/devslog"
	"github.com/mattn/go-isatty"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// newLogHandler picks the colored handler for terminals and JSON lines for everything else.
func newLogHandler(w io.Writer, terminal bool, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	if terminal {
		return devslog.NewHandler(w, &devslog.Options{
			HandlerOptions:    opts,
			SortKeys:          true,
			TimeFormat:        "[15:04:05]",
			MaxSlicePrintSize: 10,
		})
	}
	return slog.NewJSONHandler(w, opts)
}

func initLogger(level string) error {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	w := os.Stdout
	handler := newLogHandler(w, isatty.IsTerminal(w.Fd()), parsedLevel)

	slog.SetDefault(slog.New(handler).With("app", "blouconnect"))
	return nil
}
