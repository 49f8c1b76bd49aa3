// Package zap adapts a *zap.Logger to dejson.Logger.
package zap

import (
	"maps"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reoring/dejson"
)

var _ dejson.Logger = Logger{}

// Logger writes dejson events to zap under component=dejson. Fields are
// only built for enabled levels.
type Logger struct{ l *zap.Logger }

// New wraps l. A nil l discards everything.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{l: l.With(zap.String("component", "dejson"))}
}

func (z Logger) Debug(msg string, f dejson.Fields) { z.write(zapcore.DebugLevel, msg, f) }
func (z Logger) Info(msg string, f dejson.Fields)  { z.write(zapcore.InfoLevel, msg, f) }
func (z Logger) Warn(msg string, f dejson.Fields)  { z.write(zapcore.WarnLevel, msg, f) }
func (z Logger) Error(msg string, f dejson.Fields) { z.write(zapcore.ErrorLevel, msg, f) }

func (z Logger) write(lvl zapcore.Level, msg string, f dejson.Fields) {
	if z.l == nil {
		return
	}
	if ce := z.l.Check(lvl, msg); ce != nil {
		ce.Write(fields(f)...)
	}
}

// fields converts f in key order; strings and ints keep their zap type.
func fields(f dejson.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		switch v := f[k].(type) {
		case string:
			out = append(out, zap.String(k, v))
		case int:
			out = append(out, zap.Int(k, v))
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
