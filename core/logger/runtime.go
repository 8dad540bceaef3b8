package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// contextKey is a private type so logger context values never collide
// with other packages.
type contextKey string

const (
	ctxRID      contextKey = "rid"
	ctxUpdateID contextKey = "update_id"
	ctxUserID   contextKey = "user_id"
	ctxChatID   contextKey = "chat_id"
	ctxLogger   contextKey = "logger"
	ctxHandler  contextKey = "handler"
	ctxTraceID  contextKey = "trace_id"
	ctxSpanID   contextKey = "span_id"
)

func fromCtx[T any](ctx context.Context, key contextKey) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// WithLogger stores log in the context so lower layers emit through the
// same channel logger as the caller.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLogger, log)
}

// FromContext returns the logger carried by ctx, or the global default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := fromCtx[*slog.Logger](ctx, ctxLogger); ok {
		return l
	}
	return L
}

// WithRID attaches the request correlation id to ctx.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRID, rid)
}

// RIDFrom returns the correlation id carried by ctx, if any.
func RIDFrom(ctx context.Context) string {
	s, _ := fromCtx[string](ctx, ctxRID)
	return s
}

// WithUpdateMeta attaches the identifiers every update log line carries.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUpdateID, updateID)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxChatID, chatID)
	return ctx
}

// WithHandler records which handler owns the rest of this update's logs.
func WithHandler(ctx context.Context, handler string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if handler == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxHandler, handler)
}

// HandlerFrom returns the handler name carried by ctx, if any.
func HandlerFrom(ctx context.Context) string {
	s, _ := fromCtx[string](ctx, ctxHandler)
	return s
}

// WithTrace attaches trace and span identifiers to ctx.
func WithTrace(ctx context.Context, traceID, spanID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if traceID != "" {
		ctx = context.WithValue(ctx, ctxTraceID, traceID)
	}
	if spanID != "" {
		ctx = context.WithValue(ctx, ctxSpanID, spanID)
	}
	return ctx
}

// TraceIDFrom returns the trace id carried by ctx, if any.
func TraceIDFrom(ctx context.Context) string {
	s, _ := fromCtx[string](ctx, ctxTraceID)
	return s
}

// SpanIDFrom returns the span id carried by ctx, if any.
func SpanIDFrom(ctx context.Context) string {
	s, _ := fromCtx[string](ctx, ctxSpanID)
	return s
}

// UserIDFrom returns the Telegram user id carried by ctx, if any.
func UserIDFrom(ctx context.Context) int64 {
	return int64From(ctx, ctxUserID)
}

// ChatIDFrom returns the chat id carried by ctx, if any.
func ChatIDFrom(ctx context.Context) int64 {
	return int64From(ctx, ctxChatID)
}

// UpdateIDFrom returns the update id carried by ctx, if any.
func UpdateIDFrom(ctx context.Context) int {
	return int(int64From(ctx, ctxUpdateID))
}

func int64From(ctx context.Context, key contextKey) int64 {
	if ctx == nil {
		return 0
	}
	switch id := ctx.Value(key).(type) {
	case int64:
		return id
	case int:
		return int64(id)
	}
	return 0
}

// Sanitize strips control and format runes (except tab and newline) so a
// hostile username or message text cannot break log lines.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == 0x7F || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	cleaned := Sanitize(s)
	runes := []rune(cleaned)
	if len(runes) <= max {
		return cleaned
	}
	return string(runes[:max])
}

// BuildRID builds the correlation id as updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID re-encodes a colon-separated rid as dot-joined base36 for
// shorter log lines. Inputs in any other shape come back unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	if rid == "" {
		return ""
	}
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	compact := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return rid
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return rid
		}
		compact = append(compact, strconv.FormatInt(n, 36))
	}
	return strings.Join(compact, ".")
}
