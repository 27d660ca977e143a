//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"convo-commerce-be/internal/config"
	"convo-commerce-be/pkg/llm"
	"convo-commerce-be/pkg/llm/factory"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	fmt.Printf("Loaded Config > LLM Provider: %s\n", cfg.Ai.Provider)
	fmt.Printf("Loaded Config > Model: %s\n", cfg.Ai.LLMModel)
	fmt.Printf("Loaded Config > Embedding Model: %s\n", cfg.Ai.EmbeddingModel)

	// 2. Initialize the provider directly, bypassing breaker and cache
	provider, err := factory.NewProvider(cfg.Ai.Provider, cfg.Ai.LLMModel, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Ai.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Error creating provider: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Test Embedding
	text := "I want to buy two pairs of running shoes."
	fmt.Printf("\nGenerating embedding for: \"%s\"\n", text)

	vector, err := provider.Embed(ctx, text)
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}
	fmt.Printf("Success! Embedding dimensions: %d\n", len(vector))
	if len(vector) > 5 {
		fmt.Printf("First 5 values: %v...\n", vector[:5])
	}

	// 4. Test Generation with the tools a BROWSING session would expose
	result, err := provider.Generate(ctx, llm.GenerateRequest{
		Prompt: text,
		Tools:  []string{"search_catalog", "transition_state"},
	})
	if err != nil {
		log.Fatalf("Error generating response: %v", err)
	}

	fmt.Printf("\nModel text: %q\n", result.Text)
	for _, call := range result.ToolCalls {
		fmt.Printf("Tool call: %s args=%v\n", call.Name, call.Arguments)
	}
	fmt.Printf("Usage: prompt=%d completion=%d total=%d\n",
		result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	if len(result.ToolCalls) > 0 {
		fmt.Println("✅ Model produced a tool call, decision pipeline will see an action.")
	} else {
		fmt.Println("⚠️  No tool call returned, the turn would resolve to a plain PROCEED.")
	}
}
