// Package dispatch orchestrates notification delivery: tracker check,
// message build, provider send, tracker update and error capture.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Mallinanga/nanga-notifications/config"
	"github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/core/message"
	"github.com/Mallinanga/nanga-notifications/core/recipient"
	"github.com/Mallinanga/nanga-notifications/core/tracker"
	"github.com/Mallinanga/nanga-notifications/logger"
	"github.com/Mallinanga/nanga-notifications/observability"
	"github.com/Mallinanga/nanga-notifications/provider"
)

// Dispatcher drives the per-call state machine with terminal states SENT,
// SKIPPED and FAILED. All failure kinds are absorbed here: a dispatch never
// returns an error to the publish trigger.
type Dispatcher struct {
	cfg       *config.Config
	resolver  recipient.Resolver
	tracker   tracker.Tracker
	client    provider.Client
	log       logger.Interface
	telemetry *observability.Telemetry
	collector *Collector

	// Serializes check-send-mark so the tracker keeps read-your-writes if
	// two triggers ever race on the same content.
	mu sync.Mutex
}

// Option configures the dispatcher
type Option func(*Dispatcher)

// WithTelemetry attaches tracing and metrics
func WithTelemetry(t *observability.Telemetry) Option {
	return func(d *Dispatcher) {
		d.telemetry = t
	}
}

// WithCollector replaces the operator error collector
func WithCollector(c *Collector) Option {
	return func(d *Dispatcher) {
		d.collector = c
	}
}

// New creates a dispatcher. A nil provider client puts the dispatcher in
// degraded mode: dispatch calls fail with a configuration error instead of
// sending, and publishing is never blocked.
func New(cfg *config.Config, resolver recipient.Resolver, trk tracker.Tracker, client provider.Client, opts ...Option) *Dispatcher {
	log := cfg.Logger
	if log == nil {
		log = logger.Default
	}
	d := &Dispatcher{
		cfg:       cfg,
		resolver:  resolver,
		tracker:   trk,
		client:    client,
		log:       log,
		collector: NewCollector(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Errors returns the operator-facing error messages accumulated so far
func (d *Dispatcher) Errors() []string {
	return d.collector.All()
}

// Collector exposes the error collector for presentation adapters
func (d *Dispatcher) Collector() *Collector {
	return d.collector
}

// sendOptions holds per-call overrides
type sendOptions struct {
	singleRecipient string
}

// SendOption adjusts a single dispatch call
type SendOption func(*sendOptions)

// WithSingleRecipient addresses the message to one email address, bypassing
// recipient resolution entirely.
func WithSingleRecipient(email string) SendOption {
	return func(o *sendOptions) {
		o.singleRecipient = email
	}
}

// Dispatch runs one notification attempt for the given content item
func (d *Dispatcher) Dispatch(ctx context.Context, contentID string, spec message.Spec, opts ...SendOption) *Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}

	begin := time.Now()
	res := &Result{
		ContentID: contentID,
		Status:    StatusSkipped,
		Timestamp: begin,
	}

	var span trace.Span
	if d.telemetry != nil {
		ctx, span = d.telemetry.StartDispatch(ctx, contentID)
	}
	defer func() {
		res.Duration = time.Since(begin)
		if d.telemetry != nil {
			d.telemetry.RecordResult(ctx, span, string(res.Status), res.ProviderStatus, res.Recipients, res.Duration)
		}
		d.trace(ctx, begin, res)
	}()

	// Entry: idempotence and global switch.
	if d.cfg.Disabled {
		d.log.Debug(ctx, "dispatch skipped for %s: notifications disabled", contentID)
		return res
	}
	if d.tracker.IsSent(ctx, contentID) {
		d.log.Debug(ctx, "dispatch skipped for %s: already sent", contentID)
		return res
	}

	// Build.
	builder := message.NewBuilder(spec).
		From(message.Address{Email: d.cfg.FromAddress, Name: d.cfg.FromName}).
		DefaultTemplate(d.cfg.DefaultTemplate)

	if o.singleRecipient != "" {
		builder.SingleRecipient(o.singleRecipient)
	} else {
		recipients, err := d.resolver.Resolve(ctx, d.cfg.RecipientRoles)
		if err != nil {
			return d.fail(ctx, res, err)
		}
		builder.Recipients(recipients)
	}

	msg, err := builder.Build()
	if err != nil {
		return d.fail(ctx, res, err)
	}
	res.Recipients = msg.RecipientCount()
	if res.Recipients == 0 {
		d.log.Warn(ctx, "dispatch skipped for %s: no recipients resolved", contentID)
		return res
	}

	// Debug short-circuit: serialize and log, never send, tracker untouched.
	if d.cfg.Debug {
		payload, _ := json.MarshalIndent(msg, "", "  ")
		d.log.Info(ctx, "debug dispatch for %s:\n%s", contentID, string(payload))
		return res
	}

	if d.client == nil {
		cfgErr := errors.MissingAPIKey()
		d.collector.Append(cfgErr.Message)
		return d.fail(ctx, res, cfgErr)
	}

	// Send.
	resp, err := d.client.Send(ctx, msg)
	if err != nil {
		// Transport failure: logged, no operator-facing detail, record
		// untouched so a republish can retry.
		return d.fail(ctx, res, err)
	}

	res.ProviderStatus = resp.StatusCode
	if resp.Success() {
		if err := d.tracker.MarkSent(ctx, contentID); err != nil {
			d.log.Warn(ctx, "mark sent failed for %s: %v", contentID, err)
		}
		res.Status = StatusSent
		d.log.Info(ctx, "notification sent for %s (%d recipients, status %d)", contentID, res.Recipients, resp.StatusCode)
		return res
	}

	// Provider rejection: decode the structured error list, queue each
	// message for operator display.
	msgs := resp.Errors()
	for _, m := range msgs {
		d.log.Error(ctx, "provider rejected message for %s: %s", contentID, m)
	}
	d.collector.Append(msgs...)
	res.Errors = append(res.Errors, msgs...)
	res.Status = StatusFailed
	return res
}

// fail marks the result failed and logs the cause
func (d *Dispatcher) fail(ctx context.Context, res *Result, err error) *Result {
	res.Status = StatusFailed
	res.Errors = append(res.Errors, err.Error())
	d.log.Error(ctx, "dispatch failed for %s: %v", res.ContentID, err)
	return res
}

// trace emits the operation trace line
func (d *Dispatcher) trace(ctx context.Context, begin time.Time, res *Result) {
	var traceErr error
	if res.Status == StatusFailed {
		msg := "dispatch failed"
		if len(res.Errors) > 0 {
			msg = res.Errors[len(res.Errors)-1]
		}
		traceErr = fmt.Errorf("%s", msg)
	}
	d.log.Trace(ctx, begin, func() (string, int64) {
		return "notify " + res.ContentID, int64(res.Recipients)
	}, traceErr)
}
