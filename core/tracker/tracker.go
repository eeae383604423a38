// Package tracker records which content items have already had a
// notification sent, enforcing at-most-once delivery.
package tracker

import (
	"context"
	"sync"
)

// Tracker is the delivery record store. IsSent never fails: an absent or
// unreadable record reads as false, so a storage outage can at worst cause a
// re-send attempt, never a blocked publish.
type Tracker interface {
	// IsSent reports whether a notification was already sent for the content
	IsSent(ctx context.Context, contentID string) bool

	// MarkSent records a confirmed successful send. Idempotent.
	MarkSent(ctx context.Context, contentID string) error

	// MarkUnsent deletes the delivery record, allowing a re-send on
	// republish. Idempotent; a no-op for absent records.
	MarkUnsent(ctx context.Context, contentID string) error
}

// Memory is a mutex-guarded in-memory Tracker. Suitable for tests and single
// process deployments; use the redis backend for durable records.
type Memory struct {
	mu   sync.RWMutex
	sent map[string]bool
}

// NewMemory creates an empty in-memory tracker
func NewMemory() *Memory {
	return &Memory{sent: make(map[string]bool)}
}

func (m *Memory) IsSent(ctx context.Context, contentID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sent[contentID]
}

func (m *Memory) MarkSent(ctx context.Context, contentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[contentID] = true
	return nil
}

func (m *Memory) MarkUnsent(ctx context.Context, contentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sent, contentID)
	return nil
}
