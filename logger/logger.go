package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger wraps slog.Logger with the fields this client logs repeatedly.
type Logger struct {
	*slog.Logger
}

// New creates a text logger writing to w at the given level name.
func New(w io.Writer, level string) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, opts))}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// OpenFile appends to the log file at path, creating parent directories.
// The terminal belongs to the TUI, so records never go to stdout.
func OpenFile(path string, level string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f, nil
}

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// LogHTTPRequest logs one completed API round trip.
func (l *Logger) LogHTTPRequest(ctx context.Context, method string, path string, status int, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"API Request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	)
}

// LogHTTPFailure logs a request that never produced a response.
func (l *Logger) LogHTTPFailure(ctx context.Context, method string, path string, duration time.Duration, err error) {
	l.Logger.WarnContext(ctx,
		"API Request Failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Duration("duration", duration),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) LogPurchaseCreated(ctx context.Context, purchaseID int, filmID int, seats []string) {
	l.Logger.InfoContext(ctx,
		"Purchase Created",
		slog.Int("purchase_id", purchaseID),
		slog.Int("film_id", filmID),
		slog.String("seats", strings.Join(seats, ",")),
	)
}

func (l *Logger) LogSelectionPersisted(ctx context.Context, filmID int, roomID int, seats int) {
	l.Logger.InfoContext(ctx,
		"Selection Persisted For Login",
		slog.Int("film_id", filmID),
		slog.Int("room_id", roomID),
		slog.Int("seats", seats),
	)
}

func (l *Logger) LogAuthChange(ctx context.Context, username string, authenticated bool) {
	l.Logger.InfoContext(ctx,
		"Authentication Changed",
		slog.String("username", username),
		slog.Bool("authenticated", authenticated),
	)
}
