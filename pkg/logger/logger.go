
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger with the printf-style helpers used by the binaries.
type Logger struct {
	*slog.Logger
}

type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output io.Writer
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, ho)
	} else {
		h = slog.NewTextHandler(out, ho)
	}
	return &Logger{Logger: slog.New(h)}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
