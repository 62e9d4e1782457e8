package recognizer

import (
	"bytes"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientConfig configures the HTTP recognition client.
type ClientConfig struct {
	// BaseURL of the recognition service, e.g. "http://localhost:9090".
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Timeout bounds a single recognition call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds recognition calls when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to a remote recognition service exposing
// POST /recognize (multipart image -> Document JSON).
type Client struct {
	http *resty.Client
}

// NewClient builds a recognition client for the given service.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: c}
}

// Recognize sends the encoded image and decodes the block/line structure.
// Any transport or service failure is reported as a *RecognitionError.
func (c *Client) Recognize(ctx context.Context, image []byte) (*Document, error) {
	var doc Document
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", "recipe.png", bytes.NewReader(image)).
		SetResult(&doc).
		Post("/recognize")
	if err != nil {
		return nil, &RecognitionError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, &RecognitionError{Status: resp.StatusCode(), Message: string(resp.Body())}
	}
	return &doc, nil
}
