package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level int) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(level, &buf), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t, -4)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.key+"="+tc.val)
	}
}

func TestSlogLogger_LevelFiltersDebug(t *testing.T) {
	log, buf := newTestLogger(t, 0)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t, 0)
	ctx := context.Background()

	log2 := log.With("list_id", "123", "title", "office")
	log2.Info(ctx, "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "list_id=123", "title=office", "k=v"} {
		assert.Contains(t, out, s)
	}
}

func TestNop_DiscardsAndDoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	require.NotPanics(t, func() {
		log.Info(ctx, "ctx-ok")
		log.Debug(ctx, "ctx-ok")
		log.Warn(ctx, "ctx-ok")
		log.Error(ctx, "ctx-ok")
		log.With("a", 1).Info(ctx, "child")
	})
	require.NotNil(t, log.Slog())
}
