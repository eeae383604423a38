package notice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mallinanga/nanga-notifications/core/dispatch"
	"github.com/Mallinanga/nanga-notifications/core/tracker"
)

func TestNotices(t *testing.T) {
	ctx := context.Background()

	t.Run("sent content renders the success notice", func(t *testing.T) {
		trk := tracker.NewMemory()
		require.NoError(t, trk.MarkSent(ctx, "post-1"))

		got := ForContent(ctx, trk, dispatch.NewCollector(), "post-1", "post")
		require.Len(t, got, 1)
		assert.Equal(t, LevelSuccess, got[0].Level)
		assert.Equal(t, "Notification has been sent for this post.", got[0].Text)
	})

	t.Run("success text carries the content type", func(t *testing.T) {
		assert.Equal(t, "Notification has been sent for this page.", Success("page").Text)
	})

	t.Run("unsent content renders one notice per accumulated error", func(t *testing.T) {
		collector := dispatch.NewCollector()
		collector.Append("Invalid from")
		collector.Append("Bad template")

		got := ForContent(ctx, tracker.NewMemory(), collector, "post-1", "post")
		require.Len(t, got, 2)
		assert.Equal(t, LevelError, got[0].Level)
		assert.Equal(t, "Invalid from", got[0].Text)
		assert.Equal(t, "Bad template", got[1].Text)
	})

	t.Run("unsent content with no errors renders nothing", func(t *testing.T) {
		got := ForContent(ctx, tracker.NewMemory(), dispatch.NewCollector(), "post-1", "post")
		assert.Empty(t, got)
	})
}
