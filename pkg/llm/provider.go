package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Usage carries the token counters a provider reports for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ToolCall is a tool invocation the model asked for.
type ToolCall struct {
	Name      string
	Arguments map[string]interface{}
}

// GenerateRequest is one reasoning call: the current prompt, the prior
// turns, and the tools usable in the session's current flow step.
type GenerateRequest struct {
	Prompt  string
	History []Message
	Tools   []string
}

// GenerateResult is the structured outcome of a reasoning call.
type GenerateResult struct {
	Text      string
	ToolCalls []ToolCall
	Usage     Usage
}

// Provider defines the contract for any LLM backend. Both operations are
// only ever invoked through the resilient wrapper.
type Provider interface {
	// Generate sends the prompt/history/tools to the model and returns
	// the structured response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)

	// Embed returns a fixed-length embedding vector for the text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
