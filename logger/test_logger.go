package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger returns a logger recording to memory, for assertions in
// unit tests.
//
// Usage:
//
//	log, logs := logger.NewTestLogger()
//	lim, _ := limiter.New(cfg, limiter.WithLogger(log))
//	...
//	assert.Equal(t, 1, logs.FilterMessage("window reset").Len())
func NewTestLogger() (*CtxZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &CtxZapLogger{
		base:   zap.New(core),
		module: "test",
	}, logs
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *CtxZapLogger {
	return &CtxZapLogger{
		base:   zap.NewNop(),
		module: "nop",
	}
}
