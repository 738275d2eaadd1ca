package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithViewID(ctx, "view-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"view_id\":\"view-9\"")) {
		t.Fatalf("expected view_id on entry; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerDebugSuppressedAtInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: buf})

	log.Debug(context.Background(), "quiet")

	if buf.Len() != 0 {
		t.Fatalf("expected debug entry to be dropped at info level; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}

func TestLoggerConsoleFormatAndComponent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: "console"})

	ctx := log.WithComponent(context.Background(), "directory.poller")
	log.Info(ctx, "tick")

	out := buf.String()
	if bytes.HasPrefix(buf.Bytes(), []byte("{")) {
		t.Fatalf("expected console output, got json: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("component=directory.poller")) {
		t.Fatalf("expected component field; entry=%s", out)
	}
}

func TestLoggerWithFieldsSortedAndSessionID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	ctx = log.WithSessionID(ctx, "abc123")
	log.Info(ctx, "bound")

	out := buf.String()
	a, m, z := strings.Index(out, `"alpha"`), strings.Index(out, `"mid"`), strings.Index(out, `"zeta"`)
	if a < 0 || !(a < m && m < z) {
		t.Fatalf("expected fields in key order; entry=%s", out)
	}
	if !strings.Contains(out, `"assistant_session_id":"abc123"`) {
		t.Fatalf("expected session id field; entry=%s", out)
	}
}
