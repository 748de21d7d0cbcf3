// Package diaglog writes the optional plaintext request/response log.
//
// A nil *Log is a valid, disabled sink: every method is a no-op on it.
package diaglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

const DefaultPath = "pocketgem_debug.log"

type Log struct {
	mu     sync.Mutex
	writer io.WriteCloser
	path   string
	now    func() time.Time
}

// Open appends to the file at path and writes a session header.
func Open(path string) (*Log, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile(%s) > %w", path, err)
	}
	return newLog(file, path, time.Now), nil
}

// OpenIfEnabled returns nil when disabled or when the file cannot be opened.
// Diagnostics are never a reason to stop the program.
func OpenIfEnabled(enabled bool, path string) *Log {
	if !enabled {
		return nil
	}
	log, err := Open(path)
	if err != nil {
		slog.Default().Warn("diagnostic log disabled for this run",
			"path", path,
			"error", err)
		return nil
	}
	return log
}

func newLog(writer io.WriteCloser, path string, now func() time.Time) *Log {
	log := &Log{
		writer: writer,
		path:   path,
		now:    now,
	}
	log.printf("\n=== pocketGem session started %s ===\n", now().Format(time.RFC3339))
	return log
}

func (log *Log) Enabled() bool {
	return log != nil
}

func (log *Log) Path() string {
	if log == nil {
		return ""
	}
	return log.path
}

func (log *Log) Request(body string) {
	log.entry("REQUEST", body)
}

func (log *Log) Response(statusCode int, body []byte) {
	log.entry(fmt.Sprintf("RESPONSE (HTTP %d)", statusCode), string(body))
}

// Result records the extracted answer or the displayed error.
func (log *Log) Result(text string) {
	log.entry("RESULT", text)
}

func (log *Log) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.writer.Close()
}

func (log *Log) entry(label, text string) {
	if log == nil {
		return
	}
	log.printf("[%s] %s:\n%s\n", log.now().Format(time.RFC3339), label, text)
}

func (log *Log) printf(format string, args ...any) {
	log.mu.Lock()
	defer log.mu.Unlock()
	// Write failures are dropped; the log is best effort.
	_, _ = fmt.Fprintf(log.writer, format, args...)
}
