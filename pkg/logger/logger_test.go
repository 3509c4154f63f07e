package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "json", Output: &buf})
	l.With("component", "test").Infof("extracted %d articles", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extracted 3 articles", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "error", Output: &buf})
	l.Infof("hidden")
	l.Errorf("shown %s", "here")
	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown here"))
}
