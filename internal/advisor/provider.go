package advisor

import (
	"context"
	"fmt"

	"github.com/terraincognita07/lunacycle/internal/config"
)

// NewGenerator builds the generator selected in the configuration. It returns
// nil when AI is disabled.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case config.AIProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.AIProviderGrok:
		client, err := NewGrokClient(cfg.GrokAPIKey, cfg.GrokModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.AIProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
