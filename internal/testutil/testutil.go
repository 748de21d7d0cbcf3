// Package testutil provides shared test helpers for config files and a fake Gemini endpoint.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EnvNames are the environment variables that override the config file.
var EnvNames = []string{"GEMINI_API_KEY", "GEMINI_API_URL", "POCKETGEM_DEBUG_LOG"}

// ClearEnv blanks every variable in EnvNames for the duration of the test.
func ClearEnv(t *testing.T) {
	t.Helper()
	for _, name := range EnvNames {
		t.Setenv(name, "")
	}
}

// ConfigOption configures optional fields when creating a config file fixture.
type ConfigOption func(*configFixture)

type configFixture struct {
	mode         string
	debugLogPath string
	port         int
}

func WithMode(mode string) ConfigOption {
	return func(cfg *configFixture) {
		cfg.mode = mode
	}
}

func WithDebugLogPath(path string) ConfigOption {
	return func(cfg *configFixture) {
		cfg.debugLogPath = path
	}
}

func WithPort(port int) ConfigOption {
	return func(cfg *configFixture) {
		cfg.port = port
	}
}

// SetupTestConfig writes config.yml into tmpDir pointing at endpoint.
// An empty apiKey leaves the key unset so the placeholder default applies.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, endpoint, apiKey string, opts ...ConfigOption) string {
	t.Helper()

	var fixture configFixture
	for _, opt := range opts {
		opt(&fixture)
	}

	var b strings.Builder
	b.WriteString("gemini:\n")
	fmt.Fprintf(&b, "  endpoint: %s\n", endpoint)
	if apiKey != "" {
		fmt.Fprintf(&b, "  api_key: %s\n", apiKey)
	}
	if fixture.mode != "" {
		fmt.Fprintf(&b, "  mode: %s\n", fixture.mode)
	}
	if fixture.debugLogPath != "" {
		fmt.Fprintf(&b, "debug_log:\n  path: %s\n", fixture.debugLogPath)
	}
	if fixture.port != 0 {
		fmt.Fprintf(&b, "server:\n  port: %d\n", fixture.port)
	}

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(b.String()), 0644))
	return cfgPath
}

// CandidateResponse returns a generateContent response body whose first
// candidate answers with text.
func CandidateResponse(t *testing.T, text string) string {
	t.Helper()
	body, err := sjson.Set(`{"candidates":[{"content":{"parts":[{"text":""}],"role":"model"},"finishReason":"STOP"}]}`, "candidates.0.content.parts.0.text", text)
	require.NoError(t, err)
	return body
}

// ErrorResponse returns a generateContent error body.
func ErrorResponse(code int, message, status string) string {
	return fmt.Sprintf(`{"error": {"code": %d, "message": %q, "status": %q}}`, code, message, status)
}

// GeminiHandler answers one decoded question with a status code and body.
type GeminiHandler func(question string) (int, string)

// NewGeminiServer starts a fake generateContent endpoint. Requests whose
// body does not carry a question fail the test.
func NewGeminiServer(t *testing.T, handler GeminiHandler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("io.ReadAll() > %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		question := gjson.GetBytes(body, "contents.0.parts.0.text")
		if !question.Exists() {
			t.Errorf("request without a question: %s", body)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		statusCode, response := handler(question.String())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}
