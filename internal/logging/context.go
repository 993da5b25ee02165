// internal/logging/context.go
package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextFields pulls correlation identifiers out of ctx so every log
// line can be joined back to its trace and its tool invocation.
func ContextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}

	if id := InvocationIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("invocation.id", id))
	}

	return fields
}

type invocationCtxKey struct{}

const maxIDLen = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateID rejects identifiers that would be unsafe to echo into log
// output or metric labels.
func validateID(id, name string) error {
	switch {
	case id == "":
		return fmt.Errorf("%s cannot be empty", name)
	case !utf8.ValidString(id):
		return fmt.Errorf("%s contains invalid UTF-8", name)
	case len(id) > maxIDLen:
		return fmt.Errorf("%s exceeds max length %d", name, maxIDLen)
	case !idPattern.MatchString(id):
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

// InvocationIDFromContext returns the invocation ID carried by ctx, or
// an empty string.
func InvocationIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(invocationCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithInvocationID stamps ctx with the ID of one tool invocation.
// Panics on an empty or malformed ID; callers generate these, so a bad
// one is a programming error.
func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	if err := validateID(invocationID, "invocationID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, invocationCtxKey{}, invocationID)
}

type loggerCtxKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a nop logger when
// none was stored.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
