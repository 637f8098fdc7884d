package paint

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by the engine. The engine is silent by
// default; pass nil to silence it again.
//
// Levels:
//   - Debug: history commits, undo and redo
//   - Info: layers added or removed, state restored
//   - Warn: requests refused by an invariant (removing the last layer)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the engine's logger. Other packages of the program log
// through it so one SetLogger call configures everything.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
