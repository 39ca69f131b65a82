package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, 100, cfg.MaxSize)
	// console is forced on when file output is off, so logs go somewhere
	assert.True(t, cfg.EnableConsole)
}

func TestConfig_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{Level: "debug", Encoding: "json", EnableFile: true, BaseLogDir: "/tmp/app-logs"}
	cfg.ApplyDefaults()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, "/tmp/app-logs", cfg.BaseLogDir)
	assert.False(t, cfg.EnableConsole)
}

func TestManager_GetLogger_CachesPerModule(t *testing.T) {
	m := NewManager(Config{Level: "debug"})
	defer m.CloseAll()

	a := m.GetLogger("limiter")
	b := m.GetLogger("limiter")
	c := m.GetLogger("crpt")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestManager_FileOutput(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(Config{Level: "info", EnableFile: true, BaseLogDir: dir})

	log := m.GetLogger("crpt")
	log.Info("document submitted", zap.String("doc_type", "LP_INTRODUCE_GOODS"))
	m.CloseAll()

	assert.FileExists(t, dir+"/crpt.log")
}

func TestTestLogger_RecordsEntries(t *testing.T) {
	log, logs := NewTestLogger()

	log.Info("request admitted", zap.Int("remaining", 4))
	log.DebugCtx(context.Background(), "window reset")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("request admitted").Len())

	entry := logs.FilterMessage("request admitted").All()[0]
	assert.Equal(t, int64(4), entry.ContextMap()["remaining"])
}

func TestCtxLogger_With(t *testing.T) {
	log, logs := NewTestLogger()

	child := log.With(zap.String("request_id", "abc-123"))
	child.Warn("request throttled")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc-123", logs.All()[0].ContextMap()["request_id"])
}
