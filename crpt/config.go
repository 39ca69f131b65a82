package crpt

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/KOMKZ/go-crpt-client/limiter"
)

const (
	// DefaultBaseURL production endpoint of the marking API
	DefaultBaseURL = "https://ismp.crpt.ru"

	// DefaultCreatePath document creation path
	DefaultCreatePath = "/api/v3/lk/documents/create"
)

// Client configuration
type Config struct {
	// BaseURL API origin
	BaseURL string `mapstructure:"base_url"`

	// CreatePath document creation path
	CreatePath string `mapstructure:"create_path"`

	// Timeout per-request transport timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// Limiter windowed admission configuration
	Limiter limiter.Config `mapstructure:"limiter"`
}

// Return default configuration (production endpoint, one-minute window)
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		CreatePath: DefaultCreatePath,
		Timeout:    30 * time.Second,
		Limiter:    limiter.DefaultConfig(),
	}
}

// ApplyDefaults fills zero-value fields with defaults
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.CreatePath == "" {
		c.CreatePath = DefaultCreatePath
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Limiter.Unit == "" && c.Limiter.Capacity == 0 {
		c.Limiter = limiter.DefaultConfig()
	}
	c.Limiter.ApplyDefaults()
}

// Validate configuration. The limiter section validates itself so an
// unsupported window unit fails here, before anything is constructed.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.CreatePath, validation.Required),
	)
	if err != nil {
		return err
	}

	return c.Limiter.Validate()
}
