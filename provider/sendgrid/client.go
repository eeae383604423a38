// Package sendgrid implements the provider boundary on the SendGrid v3 Mail
// Send API.
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/core/message"
	"github.com/Mallinanga/nanga-notifications/provider"
)

const (
	// DefaultEndpoint is the SendGrid API base URL
	DefaultEndpoint = "https://api.sendgrid.com"

	mailSendPath = "/v3/mail/send"

	// Response bodies are small error lists; cap reads defensively
	maxBodySize = 1 << 20
)

// Client posts messages to the SendGrid v3 Mail Send endpoint
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithEndpoint overrides the API base URL (tests, regional endpoints)
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout bounds a single send request
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a SendGrid client for the given API key
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxConnsPerHost:     64,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 64,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider
func (c *Client) Name() string {
	return "sendgrid"
}

// Send posts the message to the mail send endpoint. The message JSON form is
// already the v3 wire format, so it is marshaled verbatim.
func (c *Client) Send(ctx context.Context, msg *message.Message) (*provider.Response, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeTransportError, errors.CategoryTransport, "encode message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+mailSendPath, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.CodeTransportError, errors.CategoryTransport, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.TransportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.CodeTransportError, errors.CategoryTransport,
			fmt.Sprintf("read response (status %d)", resp.StatusCode), err)
	}

	return &provider.Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
