package inference

import "cmp"

const (
	GrokBaseURL     = "https://api.x.ai/v1"
	MoonshotBaseURL = "https://api.moonshot.ai/v1"
	KimiBaseURL     = "https://api.kimi.com/coding/v1"
	LocalBaseURL    = "http://localhost:1234/v1"
)

func newCompatible(name, apiKey, model, baseURL string) *OpenAIInferencer {
	o := NewOpenAIInferencer(apiKey, model)
	o.name = name
	o.ChangeBaseURL(baseURL)
	return o
}

// NewGrokInferencer targets the xAI OpenAI-compatible API.
func NewGrokInferencer(apiKey string, model string) *OpenAIInferencer {
	return newCompatible("grok", apiKey, cmp.Or(model, "grok-4-fast-reasoning"), GrokBaseURL)
}

// NewMoonshotInferencer targets the Moonshot AI OpenAI-compatible API.
func NewMoonshotInferencer(apiKey string, model string) *OpenAIInferencer {
	return newCompatible("moonshot", apiKey, cmp.Or(model, "kimi-k2-5"), MoonshotBaseURL)
}

// NewKimiInferencer targets the Kimi coding OpenAI-compatible API.
func NewKimiInferencer(apiKey string, model string) *OpenAIInferencer {
	return newCompatible("kimi", apiKey, cmp.Or(model, "kimi-for-coding"), KimiBaseURL)
}

// NewLocalInferencer targets a local OpenAI-compatible server such as LM Studio.
func NewLocalInferencer(baseURL string, model string) *OpenAIInferencer {
	return newCompatible("local", "", model, cmp.Or(baseURL, LocalBaseURL))
}
