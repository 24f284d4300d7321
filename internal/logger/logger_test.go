package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/emilythestrangee/bugai/backend/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"})
	Module(log, "cases").Info("case created", slog.String("case_id", "c1"))

	out := buf.String()
	assert.Contains(t, out, `"module":"cases"`)
	assert.Contains(t, out, `"case_id":"c1"`)
}

func TestGormAdapterTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LoggingConfig{Level: "warn"})
	adapter := NewGormLoggerAdapter(log, 10*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	adapter.Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "fast queries are below warn")

	adapter.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not a query error")

	adapter.Trace(context.Background(), time.Now(), sql, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "query error")

	buf.Reset()
	adapter.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow query")
}
