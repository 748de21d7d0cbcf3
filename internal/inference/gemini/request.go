package gemini

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/sjson"
)

const (
	DefaultEndpoint  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "pocketGem/1.0"

	// PlaceholderAPIKey is the stand-in key shipped in example configs.
	// A client holding it never touches the network.
	PlaceholderAPIKey = "YOUR_API_KEY_HERE"
)

// Mode selects how requests are escaped and how responses are read.
type Mode string

const (
	// ModeStrict escapes the full JSON string grammar and reads the response
	// with a JSON parser, falling back to scanning only when that fails.
	ModeStrict Mode = "strict"
	// ModeLegacy reproduces the pocketGem 1.0 byte-for-byte behaviour:
	// seven escapes on the way out, a token scan on the way back.
	ModeLegacy Mode = "legacy"
)

const (
	requestTemplate = `{"contents":[{"parts":[{"text":"%s"}]}]}`
	questionPath    = "contents.0.parts.0.text"
)

func IsPlaceholderAPIKey(apiKey string) bool {
	return apiKey == PlaceholderAPIKey
}

// BuildRequest returns the request URL and JSON body for question.
// The key is appended to the endpoint verbatim.
func BuildRequest(question, apiKey, endpoint string, mode Mode) (string, string) {
	url := endpoint + "?key=" + apiKey

	if mode == ModeLegacy {
		return url, fmt.Sprintf(requestTemplate, escapeLegacy(question))
	}

	body, err := sjson.Set(fmt.Sprintf(requestTemplate, ""), questionPath, question)
	if err != nil {
		slog.Default().Warn("sjson.Set failed, using legacy escaping",
			"path", questionPath,
			"error", err)
		return url, fmt.Sprintf(requestTemplate, escapeLegacy(question))
	}
	return url, body
}

// escapeLegacy handles only quote, backslash and the five C escapes.
// Other control bytes are copied as is, which can produce invalid JSON.
func escapeLegacy(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
