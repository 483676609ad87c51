package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lapakly/lapak-api/internal/config"
	"github.com/lapakly/lapak-api/internal/generation"
)

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:          "test-api-key",
		ModelName:             "gemini-1.5-flash",
		RequestTimeoutSeconds: 30,
	}
}

func TestNewGeneratorValidation(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	tests := []struct {
		name   string
		mutate func(*config.LLMConfig)
		nilLog bool
	}{
		{name: "missing API key", mutate: func(c *config.LLMConfig) { c.GeminiAPIKey = "" }},
		{name: "missing model name", mutate: func(c *config.LLMConfig) { c.ModelName = "" }},
		{name: "non-positive timeout", mutate: func(c *config.LLMConfig) { c.RequestTimeoutSeconds = 0 }},
		{name: "nil logger", mutate: func(c *config.LLMConfig) {}, nilLog: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validLLMConfig()
			tc.mutate(&cfg)

			log := logger
			if tc.nilLog {
				log = nil
			}

			gen, err := NewGenerator(ctx, log, cfg)
			assert.Error(t, err)
			assert.Nil(t, gen)
			if !tc.nilLog {
				assert.ErrorIs(t, err, generation.ErrInvalidConfig)
			}
		})
	}
}
