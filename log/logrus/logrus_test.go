package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dejson"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("decoder compiled", dejson.Fields{"key": "main.Point"})
	l.Info("info", nil)
	l.Warn("prototype analysis failed", dejson.Fields{"error": "boom"})
	l.Error("error", nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "main.Point", entries[0].Data["key"])
	assert.Equal(t, "dejson", entries[0].Data["component"])
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, logrus.WarnLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].Data["error"])
	assert.Equal(t, logrus.ErrorLevel, entries[3].Level)
	assert.Equal(t, "error", hook.LastEntry().Message)
}

func TestLoggerSkipsDisabledLevels(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.WarnLevel)
	l := New(base)

	l.Debug("decoder compiled", dejson.Fields{"key": "k"})
	l.Info("info", nil)
	l.Warn("depth limit exceeded", dejson.Fields{"at": "/a/4"})

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "/a/4", hook.LastEntry().Data["at"])
}

func TestFromEntryKeepsEntryFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	l := FromEntry(base.WithField("request", "r-1"))

	l.Warn("prototype analysis failed", dejson.Fields{"type": "main.Empty"})

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, "r-1", e.Data["request"])
	assert.Equal(t, "main.Empty", e.Data["type"])
}
