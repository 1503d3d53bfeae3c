package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")
	os.Unsetenv(DebugEnv)

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseLevel_DebugEnvWins(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	assert.Equal(t, slog.LevelDebug, ParseLevel("error"))
}

func TestSetup_StderrOnly(t *testing.T) {
	var buf bytes.Buffer
	p, err := Setup(Options{Level: "info", Stderr: &buf})
	require.NoError(t, err)
	defer p.Close()

	p.Logger.Info("config loaded", "path", "ktop.toml")
	p.Logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "config loaded")
	assert.Contains(t, out, "path=ktop.toml")
	assert.NotContains(t, out, "hidden")
}

func TestSetup_TUIWritesNothingToStderr(t *testing.T) {
	var buf bytes.Buffer
	p, err := Setup(Options{Level: "debug", TUI: true, Stderr: &buf})
	require.NoError(t, err)
	defer p.Close()

	p.Logger.Warn("resources collection failed")

	assert.Empty(t, buf.String())
	n, ok := p.Notices.Last()
	require.True(t, ok)
	assert.Equal(t, "resources collection failed", n.Message)
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ktop.log")
	p, err := Setup(Options{File: path, Level: "info", TUI: true})
	require.NoError(t, err)

	p.Logger.Info("dashboard started", "tabs", 2)
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dashboard started")
	assert.Contains(t, string(data), "tabs=2")
}

func TestNoticeHandler(t *testing.T) {
	h := NewNoticeHandler()
	l := slog.New(h)

	_, ok := h.Last()
	assert.False(t, ok)

	l.Info("not a notice")
	_, ok = h.Last()
	assert.False(t, ok, "info records are not notices")

	l.With("component", "git").Warn("repo vanished")
	n, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, slog.LevelWarn, n.Level)
	assert.Equal(t, "git: repo vanished", n.Message)
	assert.False(t, n.Time.IsZero())

	l.Error("terminal lost")
	n, _ = h.Last()
	assert.Equal(t, "terminal lost", n.Message)
}

func TestMultiHandler_Enabled(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))

	slog.New(m).Info("only b")
	assert.Empty(t, a.String())
	assert.Contains(t, b.String(), "only b")
}

func TestFromSlog(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := FromSlog(base, "source")
	l.Warn("collect %s failed after %d tries", "git", 1)

	out := buf.String()
	assert.Contains(t, out, "component=source")
	assert.Contains(t, out, "collect git failed after 1 tries")
	assert.Contains(t, out, "level=WARN")
}
