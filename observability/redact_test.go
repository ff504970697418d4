package observability

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type capturingLogger struct {
	lastKeyvals []any
}

func (c *capturingLogger) Debug(ctx context.Context, msg string, keyvals ...any) { c.lastKeyvals = keyvals }
func (c *capturingLogger) Info(ctx context.Context, msg string, keyvals ...any)  { c.lastKeyvals = keyvals }
func (c *capturingLogger) Warn(ctx context.Context, msg string, keyvals ...any)  { c.lastKeyvals = keyvals }
func (c *capturingLogger) Error(ctx context.Context, msg string, keyvals ...any) { c.lastKeyvals = keyvals }

func TestRedactingLoggerMasksSecretLikeKeys(t *testing.T) {
	inner := &capturingLogger{}
	l := NewRedactingLogger(inner)

	l.Info(context.Background(), "msg", "apiKey", "sk-live-123", "userToken", "abc", "username", "alice")

	require.Equal(t, []any{"apiKey", redacted, "userToken", redacted, "username", "alice"}, inner.lastKeyvals)
}

func TestDebugFromEnv(t *testing.T) {
	os.Unsetenv("TOOLHUB_DEBUG")
	os.Unsetenv("DEBUG")
	require.False(t, DebugFromEnv())

	os.Setenv("TOOLHUB_DEBUG", "true")
	t.Cleanup(func() { os.Unsetenv("TOOLHUB_DEBUG") })
	require.True(t, DebugFromEnv())
}

func TestLogLevelFromEnvDefaultsToInfo(t *testing.T) {
	os.Unsetenv("TOOLHUB_LOG_LEVEL")
	require.Equal(t, "info", LogLevelFromEnv())

	os.Setenv("TOOLHUB_LOG_LEVEL", "DEBUG")
	t.Cleanup(func() { os.Unsetenv("TOOLHUB_LOG_LEVEL") })
	require.Equal(t, "debug", LogLevelFromEnv())
}
