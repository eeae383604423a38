// Package provider defines the email delivery provider boundary.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Mallinanga/nanga-notifications/core/message"
)

// Client sends a built message through a delivery provider. A non-nil error
// means the request never produced a provider response (transport failure);
// provider-level rejections come back as a Response with a non-2xx status.
type Client interface {
	// Name identifies the provider for logs and metrics
	Name() string

	// Send delivers the message and returns the provider response
	Send(ctx context.Context, msg *message.Message) (*Response, error)
}

// Response is the provider's answer to a send request
type Response struct {
	StatusCode int
	Body       []byte
}

// Success reports whether the status code is in the 2xx range
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// errorBody is the structured rejection body shape
type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Errors decodes the structured error list from a rejection body. A
// malformed or empty body falls back to a single generic message carrying
// the status code.
func (r *Response) Errors() []string {
	var decoded errorBody
	if err := json.Unmarshal(r.Body, &decoded); err == nil && len(decoded.Errors) > 0 {
		msgs := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return msgs
		}
	}
	return []string{fmt.Sprintf("provider rejected the message (status %d)", r.StatusCode)}
}
