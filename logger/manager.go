package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager creates and caches per-module loggers.
// Each module gets its own CtxZapLogger with a bound "module" field and,
// when file output is enabled, its own rotated log file.
type Manager struct {
	cfg     Config
	loggers map[string]*CtxZapLogger
	writers []*lumberjack.Logger
	mu      sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager creates an independent Manager instance.
// Zero-value config fields are filled with defaults.
func NewManager(cfg Config) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		cfg:     cfg,
		loggers: make(map[string]*CtxZapLogger),
	}
}

// InitManager initializes the global manager (first call wins)
func InitManager(cfg Config) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// GetLogger returns the global manager's logger for a module.
// When InitManager was never called, a console-only default manager is
// created so library packages can always log.
func GetLogger(moduleName string) *CtxZapLogger {
	managerOnce.Do(func() {
		globalManager = NewManager(DefaultConfig())
	})
	return globalManager.GetLogger(moduleName)
}

// GetLogger returns the module's CtxZapLogger, creating it on first use
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if log, exists := m.loggers[moduleName]; exists {
		m.mu.RUnlock()
		return log
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// double check, another goroutine may have created it
	if log, exists := m.loggers[moduleName]; exists {
		return log
	}

	base := m.createLogger(moduleName)
	ctxLogger := &CtxZapLogger{
		base:   base,
		module: moduleName,
	}
	m.loggers[moduleName] = ctxLogger
	return ctxLogger
}

// createLogger builds the underlying zap.Logger for a module
func (m *Manager) createLogger(moduleName string) *zap.Logger {
	level := ParseLevel(m.cfg.Level)
	encoder := m.createEncoder()

	var cores []zapcore.Core

	if m.cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	if m.cfg.EnableFile {
		writer := &lumberjack.Logger{
			Filename:   m.cfg.moduleFilePath(moduleName),
			MaxSize:    m.cfg.MaxSize,
			MaxBackups: m.cfg.MaxBackups,
			MaxAge:     m.cfg.MaxAge,
			Compress:   m.cfg.Compress,
		}
		m.writers = append(m.writers, writer)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}

	fields := []zap.Field{zap.String("module", moduleName)}
	if m.cfg.AppName != "" {
		fields = append(fields, zap.String("app", m.cfg.AppName))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).With(fields...)
}

// createEncoder builds the configured encoder
func (m *Manager) createEncoder() zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if m.cfg.Encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// CloseAll flushes buffers and closes file handles (call on shutdown)
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, log := range m.loggers {
		_ = log.base.Sync()
	}
	for _, w := range m.writers {
		_ = w.Close()
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.writers = nil
}
