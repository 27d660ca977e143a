package gemini

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

type GeminiProvider struct {
	ApiKey         string
	ModelName      string
	EmbeddingModel string
	Client         *http.Client
}

// Ensure GeminiProvider implements Provider
var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName, embeddingModel string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	return &GeminiProvider{
		ApiKey:         apiKey,
		ModelName:      modelName,
		EmbeddingModel: embeddingModel,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiFunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiChatRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type geminiChatResponse struct {
	Candidates    []geminiCandidate    `json:"candidates"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// --- Interface Implementation ---

func (p *GeminiProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResult, error) {
	contents := make([]geminiContent, 0, len(req.History)+2)
	for _, msg := range req.History {
		role := msg.Role
		// Gemini uses "model" instead of "assistant"
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  role,
		})
	}
	prompt := req.Prompt
	if len(req.Tools) > 0 {
		prompt = fmt.Sprintf("%s\n\nAvailable tools: %v", prompt, req.Tools)
	}
	contents = append(contents, geminiContent{
		Parts: []geminiPart{{Text: prompt}},
		Role:  "user",
	})

	payload := geminiChatRequest{Contents: contents}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:generateContent",
		p.ModelName,
	)

	body, err := p.post(ctx, endpoint, payloadJson)
	if err != nil {
		return nil, err
	}

	var chatRes geminiChatResponse
	if err := json.Unmarshal(body, &chatRes); err != nil {
		return nil, err
	}
	if len(chatRes.Candidates) == 0 || chatRes.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	result := &llm.GenerateResult{}
	for _, part := range chatRes.Candidates[0].Content.Parts {
		if part.Text != "" {
			result.Text += part.Text
		}
		if part.FunctionCall != nil {
			result.ToolCalls = append(result.ToolCalls, llm.ToolCall{
				Name:      part.FunctionCall.Name,
				Arguments: part.FunctionCall.Args,
			})
		}
	}
	if chatRes.UsageMetadata != nil {
		result.Usage = llm.Usage{
			PromptTokens:     chatRes.UsageMetadata.PromptTokenCount,
			CompletionTokens: chatRes.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      chatRes.UsageMetadata.TotalTokenCount,
		}
	}
	return result, nil
}

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := geminiEmbedRequest{
		Model: p.EmbeddingModel,
		Content: geminiContent{
			Parts: []geminiPart{{Text: text}},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.EmbeddingModel,
	)

	body, err := p.post(ctx, endpoint, payloadJson)
	if err != nil {
		return nil, err
	}

	var embedRes geminiEmbedResponse
	if err := json.Unmarshal(body, &embedRes); err != nil {
		return nil, err
	}
	return embedRes.Embedding.Values, nil
}

func (p *GeminiProvider) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(body))
	}
	return body, nil
}
