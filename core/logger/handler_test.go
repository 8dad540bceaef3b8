package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"
)

func newCaptureHandler(t *testing.T, format logFormat) (*structuredHandler, *asyncWriter, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	return handler, aw, buf
}

func drain(t *testing.T, aw *asyncWriter, buf *bytes.Buffer) string {
	t.Helper()
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	handler, aw, buf := newCaptureHandler(t, formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "svc.exam")
	LogEvent(ctx, log, slog.LevelInfo, "answer.saved",
		slog.String("status", "ok"),
		slog.Int64("test_id", 3),
	)

	line := drain(t, aw, buf)
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=svc.exam", "event=answer.saved", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	handler, aw, buf := newCaptureHandler(t, formatJSON)
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "svc.analysis")
	LogEvent(ctx, log, slog.LevelError, "analysis.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "LLM_TIMEOUT"),
	)

	line := drain(t, aw, buf)
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"svc.analysis"`, `"event":"analysis.failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	handler, aw, buf := newCaptureHandler(t, formatKV)
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)
	log := slog.New(handler).With("component", "tg")
	LogEvent(ctx, log, slog.LevelInfo, "update.received",
		slog.String("status", "ok"),
	)

	line := drain(t, aw, buf)
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestStructuredHandlerCompactRIDJSON(t *testing.T) {
	handler, aw, buf := newCaptureHandler(t, formatJSON)
	rawRID := "12:34:56"
	ctx := WithRID(Background(), rawRID)
	log := slog.New(handler).With("component", "tg")
	LogEvent(ctx, log, slog.LevelInfo, "update.received",
		slog.String("status", "ok"),
	)

	line := drain(t, aw, buf)
	if !strings.Contains(line, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", line)
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano to be present in JSON output, got %s", line)
	}
}

func TestStructuredHandlerDurationKeys(t *testing.T) {
	handler, aw, buf := newCaptureHandler(t, formatKV)
	log := slog.New(handler).With("component", "db")
	LogEvent(Background(), log, slog.LevelInfo, "query.done",
		slog.String("status", "ok"),
		slog.Duration("duration", 1500*time.Millisecond),
	)

	line := drain(t, aw, buf)
	if !strings.Contains(line, "duration_ms=1500") {
		t.Fatalf("expected duration_ms field, got %s", line)
	}
	if strings.Contains(line, "duration=") && !strings.Contains(line, "duration_ms=") {
		t.Fatalf("raw duration key should be renamed, got %s", line)
	}
}
