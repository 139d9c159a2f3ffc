package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(Te *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(Te, err)
		assert.NotNil(Te, l)
	}
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/log.txt"}})
	assert.Error(Te, err)
}

func TestParseLevel(Te *testing.T) {
	assert.Equal(Te, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(Te, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(Te, zapcore.InfoLevel, ParseLevel("verbose"))
	assert.True(Te, ValidLevel("error"))
	assert.False(Te, ValidLevel("verbose"))
}

func TestObservedFields(Te *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("cluster").With(String("run", "abc"))
	l.Info("round", Int("trial", 12), Float64("score", -0.25), Ints("sizes", []int{3, 1}), Err(errors.New("boom")))
	l.Debug("quiet", Bool("ok", true), Any("x", struct{}{}))

	require.Equal(Te, 2, logs.Len())
	e := logs.All()[0]
	assert.Equal(Te, "round", e.Message)
	assert.Equal(Te, "cluster", e.LoggerName)
	ctx := e.ContextMap()
	assert.Equal(Te, "abc", ctx["run"])
	assert.Equal(Te, int64(12), ctx["trial"])
	assert.Equal(Te, -0.25, ctx["score"])
	assert.Equal(Te, "boom", ctx["error"])
}

func TestNopAndDefault(Te *testing.T) {
	n := NewNopLogger()
	n.Debug("x")
	n.Info("x")
	n.Warn("x")
	n.Error("x")
	assert.Equal(Te, n, n.With(String("a", "b")).Named("c"))

	old := Default()
	defer SetDefault(old)
	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	SetDefault(nil)
	Default().Info("hello")
	assert.Equal(Te, 1, logs.Len())
}
