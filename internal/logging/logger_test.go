package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")

	var buf bytes.Buffer
	log := New(&buf, false)
	log.Info("hidden")
	log.Warn("deployment record not saved", "step", "DSCEngine")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "step=DSCEngine")
	assert.NotContains(t, out, "time=")

	buf.Reset()
	New(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "time=")
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_plan.go", shortPath("/home/dev/treb-provision/internal/usecase/deploy_plan.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/main.go"))
}
