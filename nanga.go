// Package nanga sends transactional email notifications when content is
// published. It wires the dispatch core (recipient resolution, message
// building, delivery tracking, provider send) behind two event methods,
// OnPublish and OnUnpublish, that a thin adapter layer connects to the host
// framework's event system.
package nanga

import (
	"context"
	stderrors "errors"

	"github.com/Mallinanga/nanga-notifications/config"
	"github.com/Mallinanga/nanga-notifications/core/dispatch"
	"github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/core/message"
	"github.com/Mallinanga/nanga-notifications/core/recipient"
	"github.com/Mallinanga/nanga-notifications/core/tracker"
	redistracker "github.com/Mallinanga/nanga-notifications/core/tracker/redis"
	"github.com/Mallinanga/nanga-notifications/logger"
	"github.com/Mallinanga/nanga-notifications/notice"
	"github.com/Mallinanga/nanga-notifications/observability"
	"github.com/Mallinanga/nanga-notifications/provider"
	"github.com/Mallinanga/nanga-notifications/provider/sendgrid"
)

// Content is the trigger payload for a publish transition
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Hub is the notification hub facade
type Hub struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	tracker    tracker.Tracker
	telemetry  *observability.Telemetry
	log        logger.Interface
	degraded   bool
}

// hubOptions holds construction overrides
type hubOptions struct {
	trk      tracker.Tracker
	client   provider.Client
	resolver recipient.Resolver
	filter   recipient.Filter
}

// Option configures hub construction
type Option func(*hubOptions)

// WithTracker replaces the delivery tracker (default: Redis when configured,
// otherwise in-memory)
func WithTracker(trk tracker.Tracker) Option {
	return func(o *hubOptions) {
		o.trk = trk
	}
}

// WithProvider replaces the provider client (default: SendGrid)
func WithProvider(client provider.Client) Option {
	return func(o *hubOptions) {
		o.client = client
	}
}

// WithResolver replaces the recipient resolver entirely
func WithResolver(r recipient.Resolver) Option {
	return func(o *hubOptions) {
		o.resolver = r
	}
}

// WithRecipientFilter injects a post-resolution transform on the recipient
// list, replacing the global filter hook of old
func WithRecipientFilter(f recipient.Filter) Option {
	return func(o *hubOptions) {
		o.filter = f
	}
}

// New creates a notification hub. Configuration is validated eagerly; a
// missing API key does not fail construction but puts the hub in degraded
// mode, where dispatches fail with a recorded configuration error and
// publishing is never blocked.
func New(cfg *config.Config, store recipient.Store, opts ...Option) (*Hub, error) {
	if cfg == nil {
		cfg = config.New()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default
	}

	var o hubOptions
	for _, opt := range opts {
		opt(&o)
	}

	degraded := false
	if err := cfg.Validate(); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Code == errors.CodeMissingAPIKey {
			// A custom provider needs no API key; otherwise run degraded.
			if o.client == nil {
				degraded = true
				log.Error(context.Background(), "notifications degraded: %v", e)
			}
		} else {
			return nil, err
		}
	}

	trk := o.trk
	if trk == nil {
		if cfg.Redis != nil {
			rt, err := redistracker.New(&redistracker.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return nil, err
			}
			trk = rt
		} else {
			trk = tracker.NewMemory()
		}
	}

	telemetry, err := observability.New(cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	resolver := o.resolver
	if resolver == nil {
		sr := recipient.NewStoreResolver(store)
		if o.filter != nil {
			sr.WithFilter(o.filter)
		}
		resolver = sr
	}

	client := o.client
	if client == nil && !degraded {
		client = sendgrid.New(cfg.APIKey,
			sendgrid.WithEndpoint(cfg.Endpoint),
			sendgrid.WithTimeout(cfg.Timeout),
		)
	}

	d := dispatch.New(cfg, resolver, trk, client, dispatch.WithTelemetry(telemetry))
	if degraded {
		d.Collector().Append(errors.MissingAPIKey().Message)
	}

	return &Hub{
		cfg:        cfg,
		dispatcher: d,
		tracker:    trk,
		telemetry:  telemetry,
		log:        log,
		degraded:   degraded,
	}, nil
}

// OnPublish handles a publish transition for a content item. It blocks until
// the dispatch completes and never returns an error: failures are captured
// in the result and the error collector.
func (h *Hub) OnPublish(ctx context.Context, contentID string, content Content) *dispatch.Result {
	spec := message.Spec{
		Subject:  content.Title,
		Content:  content.Body,
		Tracking: h.cfg.Tracking,
	}
	return h.dispatcher.Dispatch(ctx, contentID, spec)
}

// OnUnpublish handles a transition away from the published state. The
// delivery record is cleared only for in-scope content types, allowing a
// re-send on republish.
func (h *Hub) OnUnpublish(ctx context.Context, contentID, contentType string) error {
	if !h.cfg.InScope(contentType) {
		return nil
	}
	return h.tracker.MarkUnsent(ctx, contentID)
}

// Send dispatches an arbitrary message for a content item. A non-empty
// singleRecipient addresses the message to that email alone, bypassing
// recipient resolution.
func (h *Hub) Send(ctx context.Context, contentID string, spec message.Spec, singleRecipient string) *dispatch.Result {
	if singleRecipient != "" {
		return h.dispatcher.Dispatch(ctx, contentID, spec, dispatch.WithSingleRecipient(singleRecipient))
	}
	return h.dispatcher.Dispatch(ctx, contentID, spec)
}

// Errors returns the operator-facing error messages accumulated so far
func (h *Hub) Errors() []string {
	return h.dispatcher.Errors()
}

// Notices renders the admin notices for a content item, scoped to the
// configured content types
func (h *Hub) Notices(ctx context.Context, contentID, contentType string) []notice.Notice {
	if !h.cfg.InScope(contentType) {
		return nil
	}
	return notice.ForContent(ctx, h.tracker, h.dispatcher.Collector(), contentID, contentType)
}

// Tracker exposes the delivery tracker
func (h *Hub) Tracker() tracker.Tracker {
	return h.tracker
}

// Degraded reports whether the hub is running without a provider
func (h *Hub) Degraded() bool {
	return h.degraded
}

// Close flushes telemetry and releases tracker resources
func (h *Hub) Close(ctx context.Context) error {
	var firstErr error
	if h.telemetry != nil {
		if err := h.telemetry.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if closer, ok := h.tracker.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
