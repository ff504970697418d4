package observability

import (
	"context"
	"testing"

	"goa.design/clue/log"
)

func TestClueLoggerDoesNotPanicOnAllLevels(t *testing.T) {
	ctx := log.Context(context.Background(), log.WithFormat(log.FormatJSON))
	l := NewClueLogger()

	l.Debug(ctx, "debug message", "key", "value")
	l.Info(ctx, "info message", "tool", "echo", "ok", true)
	l.Warn(ctx, "warn message")
	l.Error(ctx, "error message", "oddKeyWithNoValue")
}
