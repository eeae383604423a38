// Package recipient resolves notification recipients from an identity store.
package recipient

// Recipient is a normalized notification recipient. ID is present only when
// the recipient was resolved from the identity store.
type Recipient struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	MergeFields map[string]string `json:"merge_fields,omitempty"`
}

// User is the identity store projection: the store returns only these three
// fields for matched entities.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Filter post-processes a resolved recipient list. Callers inject it to add
// or exclude recipients before messages are built.
type Filter func(recipients []Recipient) []Recipient
