// Package message assembles provider messages from a message spec and a
// recipient list.
package message

// Reserved substitution key always bound to the recipient display name
const NameKey = "-name-"

// Custom argument keys attached for downstream analytics correlation
const (
	UserIDArg = "userId"
	TypeArg   = "type"
)

// TypeNotification is the message-level "type" custom argument value
const TypeNotification = "notification"

// Placeholder wraps a merge key in the substitution placeholder form
func Placeholder(key string) string {
	return "-" + key + "-"
}

// Spec describes a message independently of any recipient
type Spec struct {
	Subject    string            `json:"subject"`
	Content    string            `json:"content"`
	TemplateID string            `json:"template_id,omitempty"`
	MergeData  map[string]string `json:"merge_data,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Tracking   bool              `json:"tracking"`
}

// Address is a name/email pair
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Content is one rendered body variant
type Content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Personalization is a single recipient envelope within a message
type Personalization struct {
	To            []Address         `json:"to"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
	CustomArgs    map[string]string `json:"custom_args,omitempty"`
}

// ClickTracking settings for outgoing links
type ClickTracking struct {
	Enable     bool `json:"enable"`
	EnableText bool `json:"enable_text"`
}

// OpenTracking settings for message opens
type OpenTracking struct {
	Enable bool `json:"enable"`
}

// TrackingSettings groups per-message tracking flags
type TrackingSettings struct {
	ClickTracking *ClickTracking `json:"click_tracking,omitempty"`
	OpenTracking  *OpenTracking  `json:"open_tracking,omitempty"`
}

// Message is the built, provider-ready message. The JSON form matches the
// provider mail wire format so it can be posted or logged verbatim.
type Message struct {
	ID               string             `json:"-"`
	From             Address            `json:"from"`
	Subject          string             `json:"subject"`
	Personalizations []*Personalization `json:"personalizations"`
	Content          []Content          `json:"content"`
	TemplateID       string             `json:"template_id,omitempty"`
	CustomArgs       map[string]string  `json:"custom_args,omitempty"`
	TrackingSettings *TrackingSettings  `json:"tracking_settings,omitempty"`
}

// RecipientCount returns the number of personalizations
func (m *Message) RecipientCount() int {
	return len(m.Personalizations)
}
