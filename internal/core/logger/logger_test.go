package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RotateWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var out bytes.Buffer
	l, flush := New(Options{
		Level:  "info",
		JSON:   true,
		Rotate: Rotate{Filename: file, MaxSizeMB: 1},
		Fields: []zap.Field{zap.String("app", "mini-boxdrop")},
		Out:    &out,
	})
	l.Info("hello", zap.String("k", "v"))
	l.Debug("hidden")
	flush()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, string(b), `"app":"mini-boxdrop"`)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, out.String(), `"msg":"hello"`)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, flush := New(Options{Level: "loud", Out: &bytes.Buffer{}})
	defer flush()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	FromContext(context.Background(), base).Info("fallback")
	assert.NotPanics(t, func() { FromContext(context.Background(), nil).Info("nop") })

	ctx := WithContext(context.Background(), base.With(zap.String("request_id", "rid-1")))
	FromContext(ctx, zap.NewNop()).Warn("scoped")

	require.Equal(t, 2, logs.Len())
	assert.Empty(t, logs.All()[0].ContextMap())
	assert.Equal(t, "rid-1", logs.All()[1].ContextMap()["request_id"])
}

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	_, err := w.Write([]byte("gin warning\r\n"))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "gin warning", logs.All()[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
