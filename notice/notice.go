// Package notice renders operator-facing notices from dispatch state. It is
// a presentation adapter: the dispatch core never depends on it.
package notice

import (
	"context"
	"fmt"

	"github.com/Mallinanga/nanga-notifications/core/dispatch"
	"github.com/Mallinanga/nanga-notifications/core/tracker"
)

// Level classifies a notice for rendering
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one operator-facing message
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Success renders the sent confirmation for a content type
func Success(contentType string) Notice {
	return Notice{
		Level: LevelSuccess,
		Text:  fmt.Sprintf("Notification has been sent for this %s.", contentType),
	}
}

// Error renders one accumulated dispatch error
func Error(message string) Notice {
	return Notice{Level: LevelError, Text: message}
}

// ForContent builds the notice list for a content item: the success notice
// when its delivery record is sent, otherwise one error notice per
// accumulated message.
func ForContent(ctx context.Context, trk tracker.Tracker, collector *dispatch.Collector, contentID, contentType string) []Notice {
	if trk.IsSent(ctx, contentID) {
		return []Notice{Success(contentType)}
	}

	msgs := collector.All()
	notices := make([]Notice, 0, len(msgs))
	for _, m := range msgs {
		notices = append(notices, Error(m))
	}
	return notices
}
