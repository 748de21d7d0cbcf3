package diaglog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct {
	*bytes.Buffer
	closed bool
}

func (c *nopCloser) Close() error {
	c.closed = true
	return nil
}

func TestLog_Entries(t *testing.T) {
	buffer := &nopCloser{Buffer: &bytes.Buffer{}}
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	log := newLog(buffer, "debug.log", func() time.Time { return now })

	log.Request(`{"contents":[{"parts":[{"text":"hi"}]}]}`)
	log.Response(200, []byte(`{"candidates":[]}`))
	log.Result("Hello")
	require.NoError(t, log.Close())

	want := "\n=== pocketGem session started 2026-10-19T09:30:00Z ===\n" +
		"[2026-10-19T09:30:00Z] REQUEST:\n{\"contents\":[{\"parts\":[{\"text\":\"hi\"}]}]}\n" +
		"[2026-10-19T09:30:00Z] RESPONSE (HTTP 200):\n{\"candidates\":[]}\n" +
		"[2026-10-19T09:30:00Z] RESULT:\nHello\n"
	assert.Equal(t, want, buffer.String())
	assert.True(t, buffer.closed)
	assert.True(t, log.Enabled())
	assert.Equal(t, "debug.log", log.Path())
}

func TestLog_NilIsDisabled(t *testing.T) {
	var log *Log

	assert.NotPanics(t, func() {
		log.Request("body")
		log.Response(500, []byte("oops"))
		log.Result("text")
	})
	assert.False(t, log.Enabled())
	assert.Equal(t, "", log.Path())
	assert.NoError(t, log.Close())
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	first, err := Open(path)
	require.NoError(t, err)
	first.Result("first run")
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	second.Result("second run")
	require.NoError(t, second.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(content, []byte("=== pocketGem session started")))
	assert.Contains(t, string(content), "first run")
	assert.Contains(t, string(content), "second run")
}

func TestOpenIfEnabled(t *testing.T) {
	tests := []struct {
		name        string
		enabled     bool
		path        string
		wantEnabled bool
	}{
		{
			name:        "disabled",
			enabled:     false,
			path:        filepath.Join(t.TempDir(), "debug.log"),
			wantEnabled: false,
		},
		{
			name:        "enabled",
			enabled:     true,
			path:        filepath.Join(t.TempDir(), "debug.log"),
			wantEnabled: true,
		},
		{
			name:        "unopenable path disables logging",
			enabled:     true,
			path:        filepath.Join(t.TempDir(), "missing", "dir", "debug.log"),
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := OpenIfEnabled(tt.enabled, tt.path)
			defer func() {
				_ = log.Close()
			}()
			assert.Equal(t, tt.wantEnabled, log.Enabled())
		})
	}
}
