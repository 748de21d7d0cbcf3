package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client answers a single free-form question with one round trip.
type Client interface {
	// Answer returns the answer text, or an *Error describing why there is none.
	Answer(ctx context.Context, question string) (string, error)
}

// Asker is the legacy-facing contract: the returned string is either the
// answer or a displayable error message.
type Asker interface {
	Ask(question string) string
}
