package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
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
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Debug("hidden")
	log.Info("shown", "url", "https://en.wikipedia.org/wiki/Japan")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "url=https://en.wikipedia.org/wiki/Japan") {
		t.Errorf("expected info message with attribute, got: %s", out)
	}

	buf.Reset()
	log.SetLevel("debug")
	log.With("topic", "japan").Debug("now visible")
	if !strings.Contains(buf.String(), "topic=japan") {
		t.Errorf("expected debug message after SetLevel, got: %s", buf.String())
	}
}
