package logger

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config logger manager configuration (shared by all modules)
type Config struct {
	// Level minimum level: debug, info, warn, error
	Level string `mapstructure:"level"`

	// AppName injected into every log line
	AppName string `mapstructure:"app_name"`

	// Encoding json or console
	Encoding string `mapstructure:"encoding"`

	// EnableConsole write to stdout
	EnableConsole bool `mapstructure:"enable_console"`

	// EnableFile write rotated files under BaseLogDir
	EnableFile bool `mapstructure:"enable_file"`

	// BaseLogDir log root directory (default logs/)
	BaseLogDir string `mapstructure:"base_log_dir"`

	// File rotation configuration
	MaxSize    int  `mapstructure:"max_size"`    // Maximum size of a single file (MB)
	MaxBackups int  `mapstructure:"max_backups"` // Old files to keep
	MaxAge     int  `mapstructure:"max_age"`     // Days to keep
	Compress   bool `mapstructure:"compress"`
}

// DefaultConfig returns a console-only development configuration
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-value fields with defaults
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Encoding == "" {
		c.Encoding = "console"
	}
	if c.BaseLogDir == "" {
		c.BaseLogDir = "logs"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 30
	}
	if !c.EnableFile {
		c.EnableConsole = true
	}
}

// ParseLevel converts a level name to a zapcore level (default info)
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// moduleFilePath returns the log file path for a module
func (c Config) moduleFilePath(moduleName string) string {
	return filepath.Join(c.BaseLogDir, moduleName+".log")
}
