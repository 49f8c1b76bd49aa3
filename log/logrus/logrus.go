// Package logrus adapts logrus to dejson.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/reoring/dejson"
)

var _ dejson.Logger = Logger{}

// Logger writes dejson events through a logrus entry.
type Logger struct{ e *logrus.Entry }

// New logs to l with component=dejson. A nil l uses logrus.StandardLogger.
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{e: l.WithField("component", "dejson")}
}

// FromEntry logs through e, keeping the fields already attached to it.
func FromEntry(e *logrus.Entry) Logger { return Logger{e: e} }

func (l Logger) Debug(msg string, f dejson.Fields) { l.log(logrus.DebugLevel, msg, f) }
func (l Logger) Info(msg string, f dejson.Fields)  { l.log(logrus.InfoLevel, msg, f) }
func (l Logger) Warn(msg string, f dejson.Fields)  { l.log(logrus.WarnLevel, msg, f) }
func (l Logger) Error(msg string, f dejson.Fields) { l.log(logrus.ErrorLevel, msg, f) }

func (l Logger) log(lvl logrus.Level, msg string, f dejson.Fields) {
	if l.e == nil || !l.e.Logger.IsLevelEnabled(lvl) {
		return
	}
	e := l.e
	if len(f) > 0 {
		e = e.WithFields(logrus.Fields(f))
	}
	e.Log(lvl, msg)
}
