// Package logger configures the process-wide structured logger.
//
// Logs go to stdout as text in local development and as JSON elsewhere.
// When LOG_MONGO_URI is set, a secondary async handler mirrors records
// into a MongoDB capped-style collection for later inspection.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/bazaar/config"
)

var (
	once sync.Once
	base *slog.Logger
)

type loggerCtxKey struct{}

// Init builds the global logger. Safe to call multiple times.
func Init() {
	once.Do(func() {
		level := slog.LevelInfo
		if config.AppEnv() == "local" {
			level = slog.LevelDebug
		}

		var handler slog.Handler
		if config.AppEnv() == "local" {
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		} else {
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}

		if uri := config.LogMongoURI(); uri != "" {
			if mh, err := newMongoHandler(uri, level); err == nil {
				handler = fanoutHandler{handlers: []slog.Handler{handler, mh}}
			} else {
				slog.New(handler).Warn("mongo log sink disabled", "error", err)
			}
		}

		base = slog.New(handler).With("app", "bazaar")
		slog.SetDefault(base)
	})
}

// L returns the global logger.
func L() *slog.Logger {
	Init()
	return base
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// WithCtx returns the request-scoped logger if present, else the global one.
func WithCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
		return l
	}
	return L()
}

// fanoutHandler sends each record to all child handlers.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if h.Enabled(ctx, rec.Level) {
			if err := h.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		children[i] = h.WithAttrs(attrs)
	}
	return fanoutHandler{handlers: children}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		children[i] = h.WithGroup(name)
	}
	return fanoutHandler{handlers: children}
}
