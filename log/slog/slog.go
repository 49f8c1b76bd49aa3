// Package slog adapts a *slog.Logger to dejson.Logger.
package slog

import (
	"context"
	stdslog "log/slog"
	"maps"
	"slices"

	"github.com/reoring/dejson"
)

var _ dejson.Logger = Logger{}

// Logger writes dejson events as records grouped under "dejson".
type Logger struct{ l *stdslog.Logger }

// New wraps l. A nil l uses slog.Default.
func New(l *stdslog.Logger) Logger {
	if l == nil {
		l = stdslog.Default()
	}
	return Logger{l: l}
}

func (s Logger) Debug(msg string, f dejson.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f dejson.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f dejson.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f dejson.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(lvl stdslog.Level, msg string, f dejson.Fields) {
	ctx := context.Background()
	if s.l == nil || !s.l.Enabled(ctx, lvl) {
		return
	}
	if len(f) == 0 {
		s.l.LogAttrs(ctx, lvl, msg)
		return
	}
	attrs := make([]any, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		attrs = append(attrs, stdslog.Any(k, f[k]))
	}
	s.l.LogAttrs(ctx, lvl, msg, stdslog.Group("dejson", attrs...))
}
