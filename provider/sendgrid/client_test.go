package sendgrid

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/core/message"
)

func testMessage() *message.Message {
	return &message.Message{
		From:    message.Address{Email: "news@example.com", Name: "Example News"},
		Subject: "Fresh post",
		Personalizations: []*message.Personalization{{
			To:            []message.Address{{Email: "amy@example.com", Name: "Amy"}},
			Substitutions: map[string]string{message.NameKey: "Amy"},
		}},
		Content: []message.Content{
			{Type: "text/plain", Value: "Body"},
			{Type: "text/html", Value: "<p>Body</p>"},
		},
		TemplateID: "tpl-default",
		CustomArgs: map[string]string{message.TypeArg: message.TypeNotification},
	}
}

func TestClientSend(t *testing.T) {
	t.Run("posts the v3 wire format with bearer auth", func(t *testing.T) {
		var gotMethod, gotPath, gotAuth, gotContentType string
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		client := New("SG.test", WithEndpoint(srv.URL))
		resp, err := client.Send(context.Background(), testMessage())
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/v3/mail/send", gotPath)
		assert.Equal(t, "Bearer SG.test", gotAuth)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, 202, resp.StatusCode)
		assert.True(t, resp.Success())

		assert.Equal(t, "Fresh post", gotBody["subject"])
		assert.Equal(t, "tpl-default", gotBody["template_id"])
		from := gotBody["from"].(map[string]any)
		assert.Equal(t, "news@example.com", from["email"])
		personalizations := gotBody["personalizations"].([]any)
		require.Len(t, personalizations, 1)
	})

	t.Run("rejection status and body pass through untouched", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid from"}]}`))
		}))
		defer srv.Close()

		client := New("SG.test", WithEndpoint(srv.URL))
		resp, err := client.Send(context.Background(), testMessage())
		require.NoError(t, err)

		assert.Equal(t, 400, resp.StatusCode)
		assert.False(t, resp.Success())
		assert.Equal(t, []string{"Invalid from"}, resp.Errors())
	})

	t.Run("unreachable endpoint is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := New("SG.test", WithEndpoint(srv.URL))
		_, err := client.Send(context.Background(), testMessage())
		require.Error(t, err)

		var e *nerrors.Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, nerrors.CodeTransportError, e.Code)
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := New("SG.test", WithEndpoint(srv.URL))
		_, err := client.Send(ctx, testMessage())
		assert.Error(t, err)
	})
}

func TestClientName(t *testing.T) {
	assert.Equal(t, "sendgrid", New("SG.test").Name())
}
