package message

import (
	"github.com/google/uuid"

	"github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/core/recipient"
)

// Builder assembles a provider Message from a Spec and either a resolved
// recipient list or a single-recipient override.
type Builder struct {
	spec            Spec
	from            Address
	defaultTemplate string
	singleRecipient string
	recipients      []recipient.Recipient
}

// NewBuilder creates a builder for the given spec
func NewBuilder(spec Spec) *Builder {
	return &Builder{spec: spec}
}

// From sets the sender identity
func (b *Builder) From(from Address) *Builder {
	b.from = from
	return b
}

// DefaultTemplate sets the template used when the spec carries none
func (b *Builder) DefaultTemplate(templateID string) *Builder {
	b.defaultTemplate = templateID
	return b
}

// SingleRecipient addresses the message to exactly one email address,
// bypassing recipient resolution. The display name falls back to the address.
func (b *Builder) SingleRecipient(email string) *Builder {
	b.singleRecipient = email
	return b
}

// Recipients sets the resolved recipient list
func (b *Builder) Recipients(recipients []recipient.Recipient) *Builder {
	b.recipients = recipients
	return b
}

// Build assembles the provider message. Both body variants are always
// attached; templates may ignore them but they must be present for fallback
// rendering.
func (b *Builder) Build() (*Message, error) {
	if b.spec.Subject == "" && b.spec.Content == "" {
		return nil, errors.New(errors.CodeEmptyMessage, errors.CategoryValidation, "message needs a subject or content")
	}

	msg := &Message{
		ID:      uuid.NewString(),
		From:    b.from,
		Subject: b.spec.Subject,
		Content: []Content{
			{Type: "text/plain", Value: StripTags(b.spec.Content)},
			{Type: "text/html", Value: AutoParagraph(b.spec.Content)},
		},
		TemplateID: b.spec.TemplateID,
		CustomArgs: map[string]string{TypeArg: TypeNotification},
	}
	if msg.TemplateID == "" {
		msg.TemplateID = b.defaultTemplate
	}
	for k, v := range b.spec.Metadata {
		msg.CustomArgs[k] = v
	}

	if b.singleRecipient != "" {
		msg.Personalizations = []*Personalization{{
			To: []Address{{Email: b.singleRecipient, Name: b.singleRecipient}},
		}}
	} else {
		msg.Personalizations = make([]*Personalization, 0, len(b.recipients))
		for _, r := range b.recipients {
			msg.Personalizations = append(msg.Personalizations, b.personalize(r))
		}
	}

	if b.spec.Tracking {
		msg.TrackingSettings = &TrackingSettings{
			ClickTracking: &ClickTracking{Enable: true, EnableText: true},
			OpenTracking:  &OpenTracking{Enable: true},
		}
	}

	return msg, nil
}

// personalize builds one recipient envelope. Merge order: recipient merge
// fields first, message-level merge data second (message wins on collision),
// the reserved name key always last.
func (b *Builder) personalize(r recipient.Recipient) *Personalization {
	p := &Personalization{
		To:            []Address{{Email: r.Email, Name: r.Name}},
		Substitutions: make(map[string]string, len(r.MergeFields)+len(b.spec.MergeData)+1),
	}
	for k, v := range r.MergeFields {
		p.Substitutions[k] = v
	}
	for k, v := range b.spec.MergeData {
		p.Substitutions[k] = v
	}
	p.Substitutions[NameKey] = r.Name

	if r.ID != "" {
		p.CustomArgs = map[string]string{UserIDArg: r.ID}
	}
	return p
}
