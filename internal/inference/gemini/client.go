package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/at-ishikawa/pocketgem/internal/diaglog"
	"github.com/at-ishikawa/pocketgem/internal/inference"
	"github.com/at-ishikawa/pocketgem/internal/metrics"
)

const messagePlaceholderKey = "Please set your Gemini API key (GEMINI_API_KEY or gemini.api_key)"

// Client sends one question per call to a generateContent endpoint.
// It holds no mutable state of its own and does not serialize callers.
type Client struct {
	transport Transport
	endpoint  string
	apiKey    string
	mode      Mode
	diagLog   *diaglog.Log
}

type Option func(*Client)

func WithMode(mode Mode) Option {
	return func(client *Client) {
		client.mode = mode
	}
}

// WithDiagnosticLog hands the log to the client, which closes it in Close.
func WithDiagnosticLog(log *diaglog.Log) Option {
	return func(client *Client) {
		client.diagLog = log
	}
}

func NewClient(transport Transport, endpoint, apiKey string, options ...Option) *Client {
	client := &Client{
		transport: transport,
		endpoint:  endpoint,
		apiKey:    apiKey,
		mode:      ModeStrict,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Close releases the diagnostic log and, when it supports it, the transport.
func (client *Client) Close() error {
	var errs []error
	if err := client.diagLog.Close(); err != nil {
		errs = append(errs, err)
	}
	if closer, ok := client.transport.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ask never fails: the result is the answer or a displayable error string
// starting with "Error:" or "API Error:".
func (client *Client) Ask(question string) string {
	return inference.Display(client.Answer(context.Background(), question))
}

// Answer implements inference.Client.
func (client *Client) Answer(ctx context.Context, question string) (string, error) {
	startedAt := time.Now()
	answer, err := client.answer(ctx, question)
	elapsed := time.Since(startedAt)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = inference.KindOf(err).String()
		slog.Default().Debug("gemini answer failed",
			"kind", outcome,
			"elapsed", elapsed,
			"error", err)
	}
	metrics.ObserveAsk(outcome, elapsed)

	client.diagLog.Result(inference.Display(answer, err))
	return answer, err
}

func (client *Client) answer(ctx context.Context, question string) (string, error) {
	if IsPlaceholderAPIKey(client.apiKey) {
		return "", inference.NewError(inference.KindConfiguration, messagePlaceholderKey, nil)
	}

	url, body := BuildRequest(question, client.apiKey, client.endpoint, client.mode)
	client.diagLog.Request(body)
	slog.Default().Debug("sending gemini request",
		"endpoint", client.endpoint,
		"mode", client.mode,
		"bodyBytes", len(body))

	statusCode, response, err := client.transport.Post(ctx, url, body)
	if err != nil {
		return "", inference.NewError(inference.KindTransport, describeTransportError(err), err)
	}
	client.diagLog.Response(statusCode, response)
	slog.Default().Debug("gemini response received",
		"statusCode", statusCode,
		"bodyBytes", len(response))

	answer, err := Extract(response, client.mode)
	if err != nil {
		var inferenceErr *inference.Error
		if errors.As(err, &inferenceErr) && inferenceErr.Kind == inference.KindParse && client.diagLog.Enabled() {
			inferenceErr.Hint = "see " + client.diagLog.Path()
		}
		return "", err
	}
	return answer, nil
}
