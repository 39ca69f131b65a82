// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader wraps a viper instance bound to one config file
type Loader struct {
	v *viper.Viper
}

// NewLoader reads the config file and enables env overrides.
// envPrefix maps keys like crpt.base_url to <PREFIX>_CRPT_BASE_URL.
// An empty path gives an env-only loader.
func NewLoader(path, envPrefix string) (*Loader, error) {
	v := viper.New()

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return &Loader{v: v}, nil
}

// Unmarshal decodes the whole document into out
func (l *Loader) Unmarshal(out interface{}) error {
	if err := l.v.Unmarshal(out); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// UnmarshalKey decodes one section into out
func (l *Loader) UnmarshalKey(key string, out interface{}) error {
	if err := l.v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("unmarshal config key %s: %w", key, err)
	}
	return nil
}

// GetString reads a single string value
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// Set overrides a value (flag binding, tests)
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// Load is the one-call path: read path with envPrefix overrides and decode
// the whole document into out.
func Load(path, envPrefix string, out interface{}) error {
	loader, err := NewLoader(path, envPrefix)
	if err != nil {
		return err
	}
	return loader.Unmarshal(out)
}
