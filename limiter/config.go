package limiter

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Limiter configuration
type Config struct {
	// Unit window granularity: second, minute, hour, day
	Unit Unit `mapstructure:"unit"`

	// Capacity maximum admissions per window (must be >= 1)
	Capacity int64 `mapstructure:"capacity"`

	// Backoff pause between admission attempts for blocked callers
	// The original client hardcoded one second; kept as the default here
	// so day-scale windows can choose something less chatty
	Backoff time.Duration `mapstructure:"backoff"`

	// EventBusBuffer event bus buffer size
	EventBusBuffer int `mapstructure:"event_bus_buffer"`

	// Metrics OpenTelemetry instrumentation switches
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Return default configuration (one-minute window, original client default)
func DefaultConfig() Config {
	return Config{
		Unit:           UnitMinute,
		Capacity:       5,
		Backoff:        time.Second,
		EventBusBuffer: 100,
	}
}

// ApplyDefaults fills zero-value fields with defaults
func (c *Config) ApplyDefaults() {
	if c.Backoff <= 0 {
		c.Backoff = time.Second
	}
	if c.EventBusBuffer <= 0 {
		c.EventBusBuffer = 100
	}
}

// Validate configuration
// The unit is checked first so construction fails with ErrUnsupportedUnit
// before anything is started
func (c Config) Validate() error {
	if _, err := c.Unit.Duration(); err != nil {
		return err
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Backoff, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return fmt.Errorf("invalid limiter config: %w", err)
	}

	return nil
}
