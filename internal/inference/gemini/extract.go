package gemini

import (
	"bytes"
	"log/slog"

	"github.com/tidwall/gjson"
	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/at-ishikawa/pocketgem/internal/inference"
)

const (
	MessageNoTextField = "Could not parse response (no text field)"
	MessageMalformed   = "Could not parse response (malformed JSON)"
	MessageNoTextValue = "Could not parse response (no text value)"

	candidateTextPath = "candidates.0.content.parts.0.text"
)

var (
	textToken  = []byte(`"text"`)
	errorToken = []byte(`"error"`)
)

// ExtractAnswer is Extract folded into a displayable string. It never fails.
func ExtractAnswer(body []byte) string {
	return inference.Display(Extract(body, ModeStrict))
}

// Extract pulls the answer text out of a generateContent response.
// Failures are *inference.Error of KindRemote or KindParse.
func Extract(body []byte, mode Mode) (string, error) {
	if mode != ModeLegacy {
		if text, ok := extractStructured(body); ok {
			return text, nil
		}
	}
	return scanText(body, mode)
}

func extractStructured(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	result := gjson.GetBytes(body, candidateTextPath)
	if result.Type != gjson.String {
		return "", false
	}
	return result.String(), true
}

// scanText treats body as a flat character stream and takes the value of
// the first "text" key it sees, whatever object it belongs to.
func scanText(body []byte, mode Mode) (string, error) {
	start := bytes.Index(body, textToken)
	if start < 0 {
		if bytes.Contains(body, errorToken) {
			return "", newRemoteError(body)
		}
		return "", newParseError(MessageNoTextField, body)
	}

	colon := bytes.IndexByte(body[start:], ':')
	if colon < 0 {
		return "", newParseError(MessageMalformed, body)
	}
	colon += start

	open := bytes.IndexByte(body[colon:], '"')
	if open < 0 {
		return "", newParseError(MessageNoTextValue, body)
	}
	valueStart := colon + open + 1
	valueEnd := closingQuote(body, valueStart, mode)

	return unescape(body[valueStart:valueEnd], mode), nil
}

// closingQuote returns the index of the quote ending a value that starts at
// from, or len(body) when the value runs to the end of the buffer.
func closingQuote(body []byte, from int, mode Mode) int {
	for i := from; i < len(body); i++ {
		if body[i] != '"' {
			continue
		}
		// body[from-1] is the opening quote, so i-1 is always in range.
		if mode == ModeLegacy {
			if body[i-1] != '\\' {
				return i
			}
			continue
		}
		backslashes := 0
		for j := i - 1; j >= from && body[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return len(body)
}

func newParseError(message string, body []byte) *inference.Error {
	err := inference.NewError(inference.KindParse, message, nil)
	err.Raw = body
	return err
}

func newRemoteError(body []byte) *inference.Error {
	err := inference.NewError(inference.KindRemote, "remote error", nil)
	err.Raw = body
	if st := decodeStatus(body); st != nil {
		err.Status = st
		if st.GetMessage() != "" {
			err.Message = st.GetMessage()
		}
	}
	return err
}

// decodeStatus reads the {"error": {...}} envelope Google REST APIs return
// into a google.rpc.Status. The string "status" field of the envelope has no
// counterpart in the proto and is dropped.
func decodeStatus(body []byte) *status.Status {
	envelope := gjson.GetBytes(body, "error")
	if !envelope.IsObject() {
		return nil
	}

	var st status.Status
	options := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := options.Unmarshal([]byte(envelope.Raw), &st); err != nil {
		slog.Default().Debug("remote error body is not a google.rpc.Status",
			"error", err)
		return nil
	}
	return &st
}

