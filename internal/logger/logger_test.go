package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json"}, &buf)

	l.Info().Str("source", "10.0.0.1:27015").Msg("Message decoded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "10.0.0.1:27015", line["source"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "console"}, &buf)

	l.Warn().Int("offset", 12).Msg("Datagram decode failed")
	out := buf.String()
	assert.Contains(t, out, "Datagram decode failed")
	assert.Contains(t, out, "offset=12")
	assert.NotContains(t, out, "\x1b[")
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a2s.log")
	w := openOutput(path)
	assert.False(t, colorful(w))

	// Missing parent directory falls back to stderr.
	w = openOutput(filepath.Join(t.TempDir(), "missing", "a2s.log"))
	assert.NotNil(t, w)
}
