package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"convo-commerce-be/pkg/llm"
)

type OllamaProvider struct {
	BaseURL        string
	ModelName      string
	EmbeddingModel string
	Client         *http.Client
}

// Ensure OllamaProvider implements Provider
var _ llm.Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName, embeddingModel string) *OllamaProvider {
	if embeddingModel == "" {
		embeddingModel = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL:        baseURL,
		ModelName:      modelName,
		EmbeddingModel: embeddingModel,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResult, error) {
	messages := make([]ollamaMessage, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, ollamaMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	prompt := req.Prompt
	if len(req.Tools) > 0 {
		prompt = fmt.Sprintf("%s\n\nAvailable tools: %v", prompt, req.Tools)
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: prompt})

	reqPayload := ollamaChatRequest{
		Model:    o.ModelName,
		Messages: messages,
		Stream:   false,
	}
	payloadJson, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	body, err := o.post(ctx, o.BaseURL+"/api/chat", payloadJson)
	if err != nil {
		return nil, err
	}

	var chatRes ollamaChatResponse
	if err := json.Unmarshal(body, &chatRes); err != nil {
		return nil, err
	}

	return &llm.GenerateResult{
		Text: chatRes.Message.Content,
		Usage: llm.Usage{
			PromptTokens:     chatRes.PromptEvalCount,
			CompletionTokens: chatRes.EvalCount,
			TotalTokens:      chatRes.PromptEvalCount + chatRes.EvalCount,
		},
	}, nil
}

func (o *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	reqPayload := ollamaEmbedRequest{
		Model:  o.EmbeddingModel,
		Prompt: text,
	}
	payloadJson, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	body, err := o.post(ctx, o.BaseURL+"/api/embeddings", payloadJson)
	if err != nil {
		return nil, err
	}

	var embedRes ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedRes); err != nil {
		return nil, err
	}
	return embedRes.Embedding, nil
}

func (o *OllamaProvider) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from ollama response, code %d, body %s", res.StatusCode, string(body))
	}
	return body, nil
}
