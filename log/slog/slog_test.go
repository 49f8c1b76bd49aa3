package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dejson"
)

func TestLoggerWritesRecords(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})
	l := New(stdslog.New(h))

	l.Debug("decoder compiled", dejson.Fields{"key": "main.Point"})
	l.Info("info", nil)
	l.Warn("prototype analysis failed", dejson.Fields{"error": "boom"})
	l.Error("error", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var rec struct {
		Level  string            `json:"level"`
		Msg    string            `json:"msg"`
		Dejson map[string]string `json:"dejson"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "DEBUG", rec.Level)
	assert.Equal(t, "decoder compiled", rec.Msg)
	assert.Equal(t, "main.Point", rec.Dejson["key"])

	rec.Dejson = nil
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "INFO", rec.Level)
	assert.Nil(t, rec.Dejson)

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &rec))
	assert.Equal(t, "WARN", rec.Level)
	assert.Equal(t, "boom", rec.Dejson["error"])
}

func TestLoggerSkipsDisabledLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelWarn})))

	l.Debug("decoder compiled", dejson.Fields{"key": "k"})
	l.Warn("depth limit exceeded", dejson.Fields{"at": "/a/4", "max_depth": 3})

	out := buf.String()
	assert.NotContains(t, out, "decoder compiled")
	assert.Contains(t, out, "dejson.at=/a/4")
	assert.Contains(t, out, "dejson.max_depth=3")
}
