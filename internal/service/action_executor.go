package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/pkg/decision"

	"github.com/google/uuid"
)

// webhookActionExecutor delivers authorized actions to the tenant's
// fulfillment endpoint. The runtime itself never touches order systems
// directly; it only records the attempt and the outcome.
type webhookActionExecutor struct {
	client     *http.Client
	webhookURL string
	token      string
	logger     logger.ILogger
}

func NewWebhookActionExecutor(webhookURL, token string, log logger.ILogger) decision.ActionExecutor {
	return &webhookActionExecutor{
		client:     &http.Client{},
		webhookURL: webhookURL,
		token:      token,
		logger:     log,
	}
}

type actionWebhookRequest struct {
	TenantId uuid.UUID              `json:"tenant_id"`
	Type     string                 `json:"type"`
	Payload  map[string]interface{} `json:"payload"`
}

func (e *webhookActionExecutor) Execute(ctx context.Context, tenantId uuid.UUID, action decision.ActionRequest) (map[string]interface{}, error) {
	body, err := json.Marshal(actionWebhookRequest{
		TenantId: tenantId,
		Type:     action.Type,
		Payload:  action.Payload,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = map[string]interface{}{}
	}

	if resp.StatusCode >= 300 {
		return result, fmt.Errorf("action webhook returned status %d", resp.StatusCode)
	}
	return result, nil
}
