package gemini

import (
	"context"
	"errors"
	"net/url"
	"time"

	"resty.dev/v3"
)

//go:generate mockgen -source=transport.go -destination=../../mocks/gemini/mock_transport.go -package=mock_gemini

// Transport performs one POST and hands back whatever the server sent,
// whatever the status code.
type Transport interface {
	Post(ctx context.Context, requestURL string, body string) (int, []byte, error)
}

type RestyTransport struct {
	httpClient *resty.Client
}

// NewRestyTransport sets up the process-wide HTTP client. Call Close once
// after the last request.
func NewRestyTransport(timeout time.Duration, userAgent string) *RestyTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("User-Agent", userAgent)

	return &RestyTransport{
		httpClient: client,
	}
}

func (transport *RestyTransport) Close() error {
	return transport.httpClient.Close()
}

func (transport *RestyTransport) Post(ctx context.Context, requestURL string, body string) (int, []byte, error) {
	response, err := transport.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(requestURL)
	if err != nil {
		return 0, nil, err
	}
	return response.StatusCode(), response.Bytes(), nil
}

// describeTransportError returns the transport's own message without the
// request URL, which carries the API key.
func describeTransportError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
