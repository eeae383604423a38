package config

import (
	"github.com/spf13/viper"

	"github.com/Mallinanga/nanga-notifications/core/errors"
)

// LoadFile reads configuration from a YAML, JSON or TOML file. Keys missing
// from the file keep their defaults; options are applied on top of the file
// values, so WithEnv() can still override a checked-in file.
func LoadFile(path string, opts ...Option) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.InvalidConfig(err)
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.InvalidConfig(err)
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return cfg, nil
}
