package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBuffered(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: level, Format: "json", Writer: buf}, "orchid")
	return l, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newBuffered("invalid-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("invalid level should fall back to info, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected info message to be written")
	}
}

func TestLevelIsPerLogger(t *testing.T) {
	debug, dbuf := newBuffered("debug")
	_, _ = newBuffered("error")

	debug.Debug("still visible")
	if dbuf.Len() == 0 {
		t.Error("creating a second logger must not change the first one's level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ORCHID_LOG_LEVEL", "debug")
	t.Setenv("ORCHID_LOG_FORMAT", "json")

	l := NewFromEnv("env-svc")
	if !l.Enabled(zerolog.DebugLevel) {
		t.Error("expected debug level from environment")
	}
}

func TestFieldsAreWritten(t *testing.T) {
	l, buf := newBuffered("debug")
	l.WithComponent("dispatch").Debug("request sent", Fields(FieldMethod, "GET", FieldStatus, 200))

	m := decodeLine(t, buf)
	if m["message"] != "request sent" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m[FieldComponent] != "dispatch" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
	if m[FieldMethod] != "GET" {
		t.Errorf("expected method field, got %v", m[FieldMethod])
	}
	if m["service"] != "orchid" {
		t.Errorf("expected service field, got %v", m["service"])
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBuffered("info")
	l.WithError(errors.New("boom")).Error("failed")
	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error field, got %v", m["error"])
	}
}

func TestWithFields(t *testing.T) {
	l, buf := newBuffered("info")
	l.WithFields(map[string]any{"k": "v"}).Info("x")
	if decodeLine(t, buf)["k"] != "v" {
		t.Error("expected field k=v")
	}
}

func TestLogAtLevel(t *testing.T) {
	l, buf := newBuffered("warn")
	l.Log(zerolog.InfoLevel, "dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Log(zerolog.WarnLevel, "kept")
	if decodeLine(t, buf)["level"] != "warn" {
		t.Error("expected warn level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	if l.Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should not be enabled")
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "console", NoColor: true, Writer: buf}, "orchid")
	l.Info("hello")
	if !strings.Contains(buf.String(), "[INF]") || !strings.Contains(buf.String(), "hello") {
		t.Errorf("unexpected console output %q", buf.String())
	}
}

func TestGlobalLogger(t *testing.T) {
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
	custom := Nop()
	SetGlobalLogger(custom)
	defer SetGlobalLogger(nil)
	if GetGlobalLogger() != custom {
		t.Error("expected custom global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Level: "loud", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
	cfg = &Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, 2, "skipped", "dangling")
	if m["a"] != 1 {
		t.Errorf("expected a=1, got %v", m["a"])
	}
	if len(m) != 1 {
		t.Errorf("expected 1 field, got %d", len(m))
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("fetch", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500, got %v", m[FieldDuration])
	}
}

func TestMerge(t *testing.T) {
	m := Merge(nil, map[string]any{"x": 1})
	m = Merge(m, ErrorFields("op", errors.New("e")))
	if m["x"] != 1 || m[FieldError] != "e" {
		t.Errorf("unexpected merge result %v", m)
	}
}
