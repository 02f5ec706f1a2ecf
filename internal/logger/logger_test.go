package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew_WritesToConfiguredPath(t *testing.T) {
	l, err := New(Config{Level: "debug", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, l)

	child := l.With(String("component", "test"))
	assert.NotNil(t, child)
	child.Debug("hello", Int("n", 1))
}

func TestFromContext(t *testing.T) {
	fallback := NewNop()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	stored := NewNop().With(String("k", "v"))
	ctx := WithContext(context.Background(), stored)
	assert.Equal(t, stored, FromContext(ctx, fallback))

	assert.NotNil(t, FromContext(context.Background(), nil))
}
