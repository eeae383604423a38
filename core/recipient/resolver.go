package recipient

import (
	"context"

	"github.com/Mallinanga/nanga-notifications/core/errors"
)

// Store is the identity store boundary. Implementations query entities whose
// role is in the given set.
type Store interface {
	QueryByRoles(ctx context.Context, roles []string) ([]User, error)
}

// Resolver produces a normalized recipient list for a set of roles
type Resolver interface {
	Resolve(ctx context.Context, roles []string) ([]Recipient, error)
}

// StoreResolver resolves recipients from an identity Store, with an optional
// injected filter applied after normalization.
type StoreResolver struct {
	store  Store
	filter Filter
}

// NewStoreResolver creates a resolver backed by the given identity store
func NewStoreResolver(store Store) *StoreResolver {
	return &StoreResolver{store: store}
}

// WithFilter installs a post-resolution filter and returns the resolver
func (r *StoreResolver) WithFilter(filter Filter) *StoreResolver {
	r.filter = filter
	return r
}

// Resolve queries the identity store and normalizes the results. No matches
// yields an empty list, not an error; an unreachable store yields a
// resolution error.
func (r *StoreResolver) Resolve(ctx context.Context, roles []string) ([]Recipient, error) {
	users, err := r.store.QueryByRoles(ctx, roles)
	if err != nil {
		return nil, errors.ResolutionFailed(err)
	}

	recipients := make([]Recipient, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		name := u.DisplayName
		if name == "" {
			name = u.Email
		}
		recipients = append(recipients, Recipient{
			ID:    u.ID,
			Name:  name,
			Email: u.Email,
		})
	}

	if r.filter != nil {
		recipients = r.filter(recipients)
	}
	return recipients, nil
}
