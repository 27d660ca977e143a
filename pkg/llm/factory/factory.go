package factory

import (
	"fmt"

	"convo-commerce-be/pkg/llm"
	"convo-commerce-be/pkg/llm/gemini"
	"convo-commerce-be/pkg/llm/ollama"
)

// NewProvider builds the configured LLM backend.
func NewProvider(providerName, model, embeddingModel, ollamaBaseURL, geminiAPIKey string) (llm.Provider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model, embeddingModel), nil
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(geminiAPIKey, model, embeddingModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
