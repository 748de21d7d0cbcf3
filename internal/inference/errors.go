package inference

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/genproto/googleapis/rpc/status"
)

type ErrorKind int

const (
	// KindConfiguration means the API key is still the placeholder. No request was sent.
	KindConfiguration ErrorKind = iota + 1
	// KindTransport covers DNS, connect, TLS and timeout failures.
	KindTransport
	// KindRemote means the response carried an "error" token and no "text" token.
	KindRemote
	// KindParse means the response had no recognizable text field.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by Client.Answer.
type Error struct {
	Kind    ErrorKind
	Message string
	// Raw is the full response body for KindRemote and KindParse.
	Raw []byte
	// Status is the decoded google.rpc.Status of a remote error, when the body had one.
	Status *status.Status
	// Hint is appended to the displayed message, e.g. a pointer to the diagnostic log.
	Hint string

	cause error
}

func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s error: %s > %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Display renders the error the way a caller without an error path shows it.
func (e *Error) Display() string {
	var text string
	switch e.Kind {
	case KindRemote:
		text = "API Error: " + string(e.Raw)
	default:
		text = "Error: " + e.Message
	}
	if e.Hint != "" {
		text += " - " + e.Hint
	}
	return text
}

// Reason returns the ErrorInfo reason of a remote error, e.g. API_KEY_INVALID.
func (e *Error) Reason() string {
	for _, detail := range e.Status.GetDetails() {
		var info errdetails.ErrorInfo
		if detail.MessageIs(&info) && detail.UnmarshalTo(&info) == nil {
			return info.GetReason()
		}
	}
	return ""
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var inferenceErr *Error
	if errors.As(err, &inferenceErr) {
		return inferenceErr.Kind
	}
	return 0
}

// Display folds an Answer result into the single-string contract.
// Success and every failure both come back as plain text.
func Display(answer string, err error) string {
	if err == nil {
		return answer
	}
	var inferenceErr *Error
	if errors.As(err, &inferenceErr) {
		return inferenceErr.Display()
	}
	return "Error: " + err.Error()
}
