// Package config holds the notification hub configuration. The configuration
// is an explicit struct populated once at construction through options, a
// file, or the environment, and validated eagerly.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Mallinanga/nanga-notifications/core/errors"
	"github.com/Mallinanga/nanga-notifications/logger"
)

const (
	// DefaultEndpoint is the SendGrid API base URL
	DefaultEndpoint = "https://api.sendgrid.com"

	// DefaultTimeout bounds a single provider request
	DefaultTimeout = 30 * time.Second
)

// RedisConfig contains Redis connection settings for the durable delivery
// tracker. When nil, an in-memory tracker is used.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	Environment    string  `mapstructure:"environment"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	SampleRate     float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Config holds the full notification hub configuration
type Config struct {
	// Debug serializes built messages to the logger instead of sending them
	Debug bool `mapstructure:"debug"`

	// Disabled switches off dispatch globally; triggers become no-ops
	Disabled bool `mapstructure:"disabled"`

	// Sender identity
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName    string `mapstructure:"from_name"`

	// Provider settings
	APIKey          string        `mapstructure:"api_key"`
	DefaultTemplate string        `mapstructure:"default_template"`
	Endpoint        string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout         time.Duration `mapstructure:"timeout"`

	// ContentTypes lists the content types in scope for notifications
	ContentTypes []string `mapstructure:"content_types"`

	// RecipientRoles selects which identity store roles receive notifications
	RecipientRoles []string `mapstructure:"recipient_roles"`

	// Tracking enables click and open tracking on outgoing messages
	Tracking bool `mapstructure:"tracking"`

	// Redis configures the durable delivery tracker (optional)
	Redis *RedisConfig `mapstructure:"redis"`

	// Telemetry configures OpenTelemetry tracing and metrics (optional)
	Telemetry *TelemetryConfig `mapstructure:"telemetry"`

	// Logger receives dispatch logs; defaults to logger.Default
	Logger logger.Interface `mapstructure:"-"`
}

// New creates a Config with defaults applied and the given options on top
func New(opts ...Option) *Config {
	cfg := &Config{
		Endpoint:       DefaultEndpoint,
		Timeout:        DefaultTimeout,
		ContentTypes:   []string{"post"},
		RecipientRoles: []string{"subscriber"},
		Logger:         logger.Default,
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return cfg
}

// Validate checks the configuration eagerly. A missing API key and a missing
// default template are reported as structured errors so callers can decide
// between failing fast and running degraded.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.InvalidConfig(err)
	}
	if c.DefaultTemplate == "" {
		return errors.MissingTemplate()
	}
	if c.APIKey == "" {
		return errors.MissingAPIKey()
	}
	return nil
}

// InScope reports whether the given content type receives notifications
func (c *Config) InScope(contentType string) bool {
	for _, t := range c.ContentTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
