package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Mallinanga/nanga-notifications/logger"
)

// Option defines a configuration option
type Option interface {
	apply(*Config)
}

// optionFunc wraps a function to implement Option
type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) {
	f(c)
}

// WithDebug serializes built messages to the logger instead of sending them
func WithDebug(debug bool) Option {
	return optionFunc(func(c *Config) {
		c.Debug = debug
	})
}

// WithDisabled switches dispatch off globally
func WithDisabled(disabled bool) Option {
	return optionFunc(func(c *Config) {
		c.Disabled = disabled
	})
}

// WithFrom sets the sender address and display name
func WithFrom(address, name string) Option {
	return optionFunc(func(c *Config) {
		c.FromAddress = address
		c.FromName = name
	})
}

// WithAPIKey sets the provider API key
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Config) {
		c.APIKey = key
	})
}

// WithDefaultTemplate sets the template used when a message carries none
func WithDefaultTemplate(templateID string) Option {
	return optionFunc(func(c *Config) {
		c.DefaultTemplate = templateID
	})
}

// WithEndpoint overrides the provider API base URL
func WithEndpoint(endpoint string) Option {
	return optionFunc(func(c *Config) {
		c.Endpoint = endpoint
	})
}

// WithTimeout bounds a single provider request
func WithTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.Timeout = timeout
	})
}

// WithContentTypes sets the content types in scope for notifications
func WithContentTypes(types ...string) Option {
	return optionFunc(func(c *Config) {
		c.ContentTypes = types
	})
}

// WithRecipientRoles sets the identity store roles that receive notifications
func WithRecipientRoles(roles ...string) Option {
	return optionFunc(func(c *Config) {
		c.RecipientRoles = roles
	})
}

// WithTracking enables click and open tracking
func WithTracking(tracking bool) Option {
	return optionFunc(func(c *Config) {
		c.Tracking = tracking
	})
}

// WithRedis configures the durable Redis delivery tracker
func WithRedis(addr, password string, db int) Option {
	return optionFunc(func(c *Config) {
		c.Redis = &RedisConfig{
			Addr:     addr,
			Password: password,
			DB:       db,
		}
	})
}

// WithTelemetry configures OpenTelemetry tracing and metrics
func WithTelemetry(serviceName, otlpEndpoint string) Option {
	return optionFunc(func(c *Config) {
		c.Telemetry = &TelemetryConfig{
			Enabled:      true,
			ServiceName:  serviceName,
			OTLPEndpoint: otlpEndpoint,
			SampleRate:   1.0,
		}
	})
}

// WithLogger injects the logger used by the dispatch core
func WithLogger(l logger.Interface) Option {
	return optionFunc(func(c *Config) {
		c.Logger = l
	})
}

// WithEnv reads configuration from NANGA_* environment variables. Unset
// variables leave the current values untouched.
func WithEnv() Option {
	return optionFunc(func(c *Config) {
		if v := os.Getenv("NANGA_API_KEY"); v != "" {
			c.APIKey = v
		}
		if v := os.Getenv("NANGA_DEFAULT_TEMPLATE"); v != "" {
			c.DefaultTemplate = v
		}
		if v := os.Getenv("NANGA_FROM_ADDRESS"); v != "" {
			c.FromAddress = v
		}
		if v := os.Getenv("NANGA_FROM_NAME"); v != "" {
			c.FromName = v
		}
		if v := os.Getenv("NANGA_ENDPOINT"); v != "" {
			c.Endpoint = v
		}
		if v := os.Getenv("NANGA_CONTENT_TYPES"); v != "" {
			c.ContentTypes = splitList(v)
		}
		if v := os.Getenv("NANGA_RECIPIENT_ROLES"); v != "" {
			c.RecipientRoles = splitList(v)
		}
		if v := os.Getenv("NANGA_DEBUG"); v != "" {
			c.Debug = parseBool(v)
		}
		if v := os.Getenv("NANGA_DISABLED"); v != "" {
			c.Disabled = parseBool(v)
		}
		if v := os.Getenv("NANGA_TRACKING"); v != "" {
			c.Tracking = parseBool(v)
		}
		if v := os.Getenv("NANGA_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				c.Timeout = d
			}
		}
		if v := os.Getenv("NANGA_REDIS_ADDR"); v != "" {
			db, _ := strconv.Atoi(os.Getenv("NANGA_REDIS_DB"))
			c.Redis = &RedisConfig{
				Addr:     v,
				Password: os.Getenv("NANGA_REDIS_PASSWORD"),
				DB:       db,
			}
		}
	})
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
