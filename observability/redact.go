package observability

import (
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var secretKeyPattern = regexp.MustCompile(`(?i)password|token|secret|key|auth`)

const redacted = "[REDACTED]"

// RedactingLogger wraps a Logger and masks the value of any keyval whose
// key matches secretKeyPattern before delegating, per spec.md §4.8.
type RedactingLogger struct {
	next Logger
}

// NewRedactingLogger wraps next with secret-field redaction.
func NewRedactingLogger(next Logger) *RedactingLogger {
	return &RedactingLogger{next: next}
}

func (l *RedactingLogger) Debug(ctx context.Context, msg string, keyvals ...any) {
	l.next.Debug(ctx, msg, redactKeyvals(keyvals)...)
}

func (l *RedactingLogger) Info(ctx context.Context, msg string, keyvals ...any) {
	l.next.Info(ctx, msg, redactKeyvals(keyvals)...)
}

func (l *RedactingLogger) Warn(ctx context.Context, msg string, keyvals ...any) {
	l.next.Warn(ctx, msg, redactKeyvals(keyvals)...)
}

func (l *RedactingLogger) Error(ctx context.Context, msg string, keyvals ...any) {
	l.next.Error(ctx, msg, redactKeyvals(keyvals)...)
}

func redactKeyvals(keyvals []any) []any {
	out := make([]any, len(keyvals))
	copy(out, keyvals)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if ok && secretKeyPattern.MatchString(key) {
			out[i+1] = redacted
		}
	}
	return out
}

// DebugFromEnv reports whether TOOLHUB_DEBUG or DEBUG asks for verbose
// logging, mirroring the env hints spec.md §4.8 names.
func DebugFromEnv() bool {
	for _, name := range []string{"TOOLHUB_DEBUG", "DEBUG"} {
		if v, ok := os.LookupEnv(name); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
			return v != ""
		}
	}
	return false
}

// LogLevelFromEnv reads TOOLHUB_LOG_LEVEL, defaulting to "info".
func LogLevelFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("TOOLHUB_LOG_LEVEL")); v != "" {
		return strings.ToLower(v)
	}
	return "info"
}
