package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/pocketgem/internal/inference"
)

type AskRequest struct {
	Question string `json:"question" minLength:"1" doc:"Question sent to Gemini as-is"`
}

type AskResponse struct {
	Answer      string `json:"answer" doc:"Answer text, or an error message starting with Error: or API Error:"`
	ErrorKind   string `json:"error_kind,omitempty" enum:"configuration,transport,remote,parse,unknown" doc:"Set when the answer is an error message. unknown means the client returned an error without a kind"`
	ErrorReason string `json:"error_reason,omitempty" doc:"ErrorInfo reason reported by the API, e.g. API_KEY_INVALID"`
}

type AskInput struct {
	Body AskRequest
}

type AskOutput struct {
	Body AskResponse
}

// AskHandler serves questions one at a time.
type AskHandler struct {
	mu     sync.Mutex
	client inference.Client
}

func NewAskHandler(client inference.Client) *AskHandler {
	return &AskHandler{
		client: client,
	}
}

// Ask always responds with 200; failures are reported in the body the same
// way the CLI prints them.
func (handler *AskHandler) Ask(ctx context.Context, input *AskInput) (*AskOutput, error) {
	handler.mu.Lock()
	defer handler.mu.Unlock()

	answer, err := handler.client.Answer(ctx, input.Body.Question)

	output := &AskOutput{}
	output.Body.Answer = inference.Display(answer, err)
	if err != nil {
		output.Body.ErrorKind = inference.KindOf(err).String()
		var inferenceErr *inference.Error
		if errors.As(err, &inferenceErr) {
			output.Body.ErrorReason = inferenceErr.Reason()
		}
	}
	return output, nil
}

// RegisterAskRoutes registers the routes for the ask service
func RegisterAskRoutes(api huma.API, handler *AskHandler) {
	askOp := huma.Operation{
		OperationID: "ask",
		Method:      http.MethodPost,
		Path:        "/ask",
		Summary:     "Ask Gemini a question",
		Tags:        []string{"ask"},
	}

	huma.Register(api, askOp, handler.Ask)
}

// NewHTTPHandler returns the API with /metrics, accepting HTTP/2 without TLS.
func NewHTTPHandler(handler *AskHandler, version string) http.Handler {
	mux := http.NewServeMux()
	config := huma.DefaultConfig("pocketGem API", version)
	api := humago.New(mux, config)
	RegisterAskRoutes(api, handler)

	mux.Handle("GET /metrics", promhttp.Handler())

	return h2c.NewHandler(mux, &http2.Server{})
}
