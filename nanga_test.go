package nanga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mallinanga/nanga-notifications/config"
	"github.com/Mallinanga/nanga-notifications/core/dispatch"
	"github.com/Mallinanga/nanga-notifications/core/message"
	"github.com/Mallinanga/nanga-notifications/core/recipient"
	"github.com/Mallinanga/nanga-notifications/logger"
	"github.com/Mallinanga/nanga-notifications/notice"
	"github.com/Mallinanga/nanga-notifications/provider"
)

type memStore struct {
	users []recipient.User
	roles []string
}

func (s *memStore) QueryByRoles(ctx context.Context, roles []string) ([]recipient.User, error) {
	s.roles = roles
	return s.users, nil
}

type stubProvider struct {
	response *provider.Response
	err      error
	calls    int
	lastMsg  *message.Message
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Send(ctx context.Context, msg *message.Message) (*provider.Response, error) {
	p.calls++
	p.lastMsg = msg
	return p.response, p.err
}

func subscriberStore() *memStore {
	return &memStore{users: []recipient.User{
		{ID: "1", DisplayName: "Amy", Email: "amy@example.com"},
		{ID: "2", DisplayName: "Bob", Email: "bob@example.com"},
	}}
}

func hubConfig(opts ...config.Option) *config.Config {
	base := []config.Option{
		config.WithAPIKey("SG.test"),
		config.WithDefaultTemplate("tpl-default"),
		config.WithFrom("news@example.com", "Example News"),
		config.WithLogger(logger.Discard),
	}
	return config.New(append(base, opts...)...)
}

func TestNew(t *testing.T) {
	t.Run("valid configuration builds a working hub", func(t *testing.T) {
		hub, err := New(hubConfig(), subscriberStore())
		require.NoError(t, err)
		assert.False(t, hub.Degraded())
		assert.NotNil(t, hub.Tracker())
	})

	t.Run("missing default template fails construction", func(t *testing.T) {
		_, err := New(hubConfig(config.WithDefaultTemplate("")), subscriberStore())
		assert.Error(t, err)
	})

	t.Run("missing api key degrades instead of failing", func(t *testing.T) {
		hub, err := New(hubConfig(config.WithAPIKey("")), subscriberStore())
		require.NoError(t, err)
		assert.True(t, hub.Degraded())

		res := hub.OnPublish(context.Background(), "post-1", Content{Title: "T", Body: "B"})
		assert.Equal(t, dispatch.StatusFailed, res.Status)
		require.NotEmpty(t, hub.Errors())
		assert.Contains(t, hub.Errors()[0], "API key")
	})

	t.Run("custom provider needs no api key", func(t *testing.T) {
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(config.WithAPIKey("")), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)
		assert.False(t, hub.Degraded())

		res := hub.OnPublish(context.Background(), "post-1", Content{Title: "T", Body: "B"})
		assert.Equal(t, dispatch.StatusSent, res.Status)
	})
}

func TestOnPublish(t *testing.T) {
	t.Run("publish sends once, republish skips", func(t *testing.T) {
		ctx := context.Background()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)

		first := hub.OnPublish(ctx, "post-1", Content{Title: "Fresh post", Body: "Hello"})
		assert.Equal(t, dispatch.StatusSent, first.Status)
		assert.True(t, hub.Tracker().IsSent(ctx, "post-1"))

		second := hub.OnPublish(ctx, "post-1", Content{Title: "Fresh post", Body: "Hello"})
		assert.Equal(t, dispatch.StatusSkipped, second.Status)
		assert.Equal(t, 1, prov.calls)
	})

	t.Run("message carries the content title and resolved recipients", func(t *testing.T) {
		store := subscriberStore()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), store, WithProvider(prov))
		require.NoError(t, err)

		hub.OnPublish(context.Background(), "post-1", Content{Title: "Fresh post", Body: "Hello"})

		require.NotNil(t, prov.lastMsg)
		assert.Equal(t, "Fresh post", prov.lastMsg.Subject)
		assert.Equal(t, 2, prov.lastMsg.RecipientCount())
		assert.Equal(t, []string{"subscriber"}, store.roles)
	})

	t.Run("recipient filter trims the audience", func(t *testing.T) {
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), subscriberStore(),
			WithProvider(prov),
			WithRecipientFilter(func(rs []recipient.Recipient) []recipient.Recipient {
				out := rs[:0]
				for _, r := range rs {
					if r.Email != "bob@example.com" {
						out = append(out, r)
					}
				}
				return out
			}))
		require.NoError(t, err)

		hub.OnPublish(context.Background(), "post-1", Content{Title: "T", Body: "B"})
		require.NotNil(t, prov.lastMsg)
		assert.Equal(t, 1, prov.lastMsg.RecipientCount())
	})
}

func TestOnUnpublish(t *testing.T) {
	t.Run("clearing the record allows a re-send on republish", func(t *testing.T) {
		ctx := context.Background()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)

		hub.OnPublish(ctx, "post-1", Content{Title: "T", Body: "B"})
		require.NoError(t, hub.OnUnpublish(ctx, "post-1", "post"))
		assert.False(t, hub.Tracker().IsSent(ctx, "post-1"))

		res := hub.OnPublish(ctx, "post-1", Content{Title: "T", Body: "B"})
		assert.Equal(t, dispatch.StatusSent, res.Status)
		assert.Equal(t, 2, prov.calls)
	})

	t.Run("out of scope content types keep their record", func(t *testing.T) {
		ctx := context.Background()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)

		hub.OnPublish(ctx, "post-1", Content{Title: "T", Body: "B"})
		require.NoError(t, hub.OnUnpublish(ctx, "post-1", "attachment"))
		assert.True(t, hub.Tracker().IsSent(ctx, "post-1"))
	})
}

func TestSend(t *testing.T) {
	t.Run("single recipient bypasses the store", func(t *testing.T) {
		store := subscriberStore()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), store, WithProvider(prov))
		require.NoError(t, err)

		res := hub.Send(context.Background(), "test-1",
			message.Spec{Subject: "Test", Content: "Body"}, "me@example.com")

		assert.Equal(t, dispatch.StatusSent, res.Status)
		assert.Nil(t, store.roles)
		require.NotNil(t, prov.lastMsg)
		require.Len(t, prov.lastMsg.Personalizations, 1)
		assert.Equal(t, "me@example.com", prov.lastMsg.Personalizations[0].To[0].Email)
	})

	t.Run("empty recipient falls back to resolution", func(t *testing.T) {
		store := subscriberStore()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), store, WithProvider(prov))
		require.NoError(t, err)

		res := hub.Send(context.Background(), "test-2",
			message.Spec{Subject: "Test", Content: "Body"}, "")

		assert.Equal(t, dispatch.StatusSent, res.Status)
		assert.Equal(t, []string{"subscriber"}, store.roles)
	})
}

func TestNotices(t *testing.T) {
	t.Run("sent content renders the success notice", func(t *testing.T) {
		ctx := context.Background()
		prov := &stubProvider{response: &provider.Response{StatusCode: 202}}
		hub, err := New(hubConfig(), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)

		hub.OnPublish(ctx, "post-1", Content{Title: "T", Body: "B"})

		got := hub.Notices(ctx, "post-1", "post")
		require.Len(t, got, 1)
		assert.Equal(t, notice.LevelSuccess, got[0].Level)
	})

	t.Run("failed dispatch surfaces the provider errors", func(t *testing.T) {
		ctx := context.Background()
		prov := &stubProvider{response: &provider.Response{
			StatusCode: 400,
			Body:       []byte(`{"errors":[{"message":"Invalid from"}]}`),
		}}
		hub, err := New(hubConfig(), subscriberStore(), WithProvider(prov))
		require.NoError(t, err)

		hub.OnPublish(ctx, "post-1", Content{Title: "T", Body: "B"})

		got := hub.Notices(ctx, "post-1", "post")
		require.Len(t, got, 1)
		assert.Equal(t, notice.LevelError, got[0].Level)
		assert.Equal(t, "Invalid from", got[0].Text)
	})

	t.Run("out of scope content types render nothing", func(t *testing.T) {
		hub, err := New(hubConfig(), subscriberStore(),
			WithProvider(&stubProvider{response: &provider.Response{StatusCode: 202}}))
		require.NoError(t, err)

		assert.Nil(t, hub.Notices(context.Background(), "post-1", "attachment"))
	})
}

func TestClose(t *testing.T) {
	hub, err := New(hubConfig(), subscriberStore(),
		WithProvider(&stubProvider{response: &provider.Response{StatusCode: 202}}))
	require.NoError(t, err)
	assert.NoError(t, hub.Close(context.Background()))
}
