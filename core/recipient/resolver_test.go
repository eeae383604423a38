package recipient

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/Mallinanga/nanga-notifications/core/errors"
)

type fakeStore struct {
	users []User
	err   error
	roles []string
}

func (f *fakeStore) QueryByRoles(ctx context.Context, roles []string) ([]User, error) {
	f.roles = roles
	return f.users, f.err
}

func TestStoreResolver(t *testing.T) {
	t.Run("normalizes store results", func(t *testing.T) {
		store := &fakeStore{users: []User{
			{ID: "1", DisplayName: "Amy", Email: "amy@example.com"},
			{ID: "2", DisplayName: "", Email: "bob@example.com"},
		}}

		got, err := NewStoreResolver(store).Resolve(context.Background(), []string{"subscriber"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Recipient{ID: "1", Name: "Amy", Email: "amy@example.com"}, got[0])
		// Missing display name falls back to the address.
		assert.Equal(t, "bob@example.com", got[1].Name)
		assert.Equal(t, []string{"subscriber"}, store.roles)
	})

	t.Run("entries without email are dropped", func(t *testing.T) {
		store := &fakeStore{users: []User{{ID: "3", DisplayName: "Ghost"}}}

		got, err := NewStoreResolver(store).Resolve(context.Background(), []string{"editor"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("no matches is an empty list not an error", func(t *testing.T) {
		got, err := NewStoreResolver(&fakeStore{}).Resolve(context.Background(), []string{"none"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unreachable store is a resolution error", func(t *testing.T) {
		store := &fakeStore{err: stderrors.New("connection refused")}

		_, err := NewStoreResolver(store).Resolve(context.Background(), []string{"subscriber"})
		require.Error(t, err)

		var e *nerrors.Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, nerrors.CodeResolutionFailed, e.Code)
	})

	t.Run("injected filter post-processes the list", func(t *testing.T) {
		store := &fakeStore{users: []User{
			{ID: "1", DisplayName: "Amy", Email: "amy@example.com"},
			{ID: "2", DisplayName: "Bob", Email: "bob@example.com"},
		}}
		resolver := NewStoreResolver(store).WithFilter(func(rs []Recipient) []Recipient {
			out := rs[:0]
			for _, r := range rs {
				if r.ID != "2" {
					out = append(out, r)
				}
			}
			return out
		})

		got, err := resolver.Resolve(context.Background(), []string{"subscriber"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Amy", got[0].Name)
	})
}
