package inference

import (
	"context"
	"fmt"

	"quill/pkg/config"
)

// New builds the Inferencer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Inferencer, error) {
	switch cfg.Provider {
	case "openai":
		o := NewOpenAIInferencer(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			o.ChangeBaseURL(cfg.BaseURL)
		}
		if cfg.Model == "" {
			o.SetModel("gpt-4o-mini")
		}
		return o, nil
	case "gemini":
		return NewGeminiInferencer(ctx, cfg.APIKey, cfg.Model)
	case "grok":
		return NewGrokInferencer(cfg.APIKey, cfg.Model), nil
	case "moonshot":
		return NewMoonshotInferencer(cfg.APIKey, cfg.Model), nil
	case "kimi":
		return NewKimiInferencer(cfg.APIKey, cfg.Model), nil
	case "local":
		return NewLocalInferencer(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}
}
