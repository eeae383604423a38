package dispatch

import (
	"sync"
	"time"
)

// Status is the terminal state of one dispatch call
type Status string

const (
	// StatusSent means the provider accepted the message and the delivery
	// record was created
	StatusSent Status = "sent"

	// StatusSkipped means no send was attempted: already sent, globally
	// disabled, debug mode, or nobody to send to
	StatusSkipped Status = "skipped"

	// StatusFailed means the send was attempted and did not succeed; the
	// delivery record is untouched so a republish can retry
	StatusFailed Status = "failed"
)

// Result describes the outcome of one dispatch call
type Result struct {
	ContentID      string        `json:"content_id"`
	Status         Status        `json:"status"`
	ProviderStatus int           `json:"provider_status,omitempty"`
	Recipients     int           `json:"recipients"`
	Errors         []string      `json:"errors,omitempty"`
	Duration       time.Duration `json:"duration"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Sent reports whether the dispatch reached the SENT state
func (r *Result) Sent() bool {
	return r.Status == StatusSent
}

// Collector accumulates operator-facing error messages across dispatch
// calls. The admin notice adapter drains it for display; dispatch failures
// never propagate to the publish trigger.
type Collector struct {
	mu     sync.Mutex
	errors []string
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Append adds error messages preserving order
func (c *Collector) Append(msgs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msgs...)
}

// All returns a copy of the accumulated messages
func (c *Collector) All() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	copy(out, c.errors)
	return out
}

// Clear drops the accumulated messages
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = nil
}
