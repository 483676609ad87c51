package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupParsesLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN", "bogus"} {
		t.Run(level, func(t *testing.T) {
			log := Setup(level)
			require.NotNil(t, log)
		})
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	base := slog.Default()
	ctx := WithLogger(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))
}

func TestFromContextOrDefaultFallback(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, FromContext(ctx))

	fallback := slog.Default().With("component", "test")
	assert.Same(t, fallback, FromContextOrDefault(ctx, fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(ctx, nil))
}
