package service

import (
	"context"

	"convo-commerce-be/internal/dto"
	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/pkg/decision"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultAuditPageSize = 50

type IAuditService interface {
	ListDecisions(ctx context.Context, tenantId uuid.UUID, request *dto.ListDecisionsRequest) ([]*dto.DecisionEventResponse, error)
	ShowDecision(ctx context.Context, tenantId uuid.UUID, decisionId uuid.UUID) (*dto.ShowDecisionResponse, error)
}

// auditService exposes the read side of the decision trail. It only ever
// reads; the trail is written by the pipeline alone.
type auditService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory) IAuditService {
	return &auditService{
		uowFactory: uowFactory,
	}
}

func (as *auditService) ListDecisions(ctx context.Context, tenantId uuid.UUID, request *dto.ListDecisionsRequest) ([]*dto.DecisionEventResponse, error) {
	specs := []specification.Specification{
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if request.SessionId != nil {
		specs = append(specs, specification.BySessionID{SessionID: *request.SessionId})
	}
	if request.Kind != "" {
		if !decision.Kind(request.Kind).IsValid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown decision kind")
		}
		specs = append(specs, specification.ByDecisionKind{Kind: request.Kind})
	}

	limit := request.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultAuditPageSize
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: request.Offset})

	uow := as.uowFactory.NewUnitOfWork(ctx)
	events, err := uow.DecisionEventRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DecisionEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, toDecisionEventResponse(event))
	}
	return response, nil
}

func (as *auditService) ShowDecision(ctx context.Context, tenantId uuid.UUID, decisionId uuid.UUID) (*dto.ShowDecisionResponse, error) {
	uow := as.uowFactory.NewUnitOfWork(ctx)

	event, err := uow.DecisionEventRepository().FindOne(ctx,
		specification.ByID{ID: decisionId},
		specification.TenantOwnedBy{TenantID: tenantId},
	)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Decision not found")
	}

	checks, err := uow.GuardrailCheckRepository().FindAll(ctx,
		specification.ByDecisionID{DecisionID: decisionId},
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	actions, err := uow.ActionExecutionRepository().FindAll(ctx,
		specification.ByDecisionID{DecisionID: decisionId},
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "started_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := &dto.ShowDecisionResponse{
		Event:   toDecisionEventResponse(event),
		Checks:  make([]*dto.GuardrailCheckResponse, 0, len(checks)),
		Actions: make([]*dto.ActionExecutionResponse, 0, len(actions)),
	}
	for _, check := range checks {
		response.Checks = append(response.Checks, &dto.GuardrailCheckResponse{
			Id:            check.Id,
			GuardrailCode: check.GuardrailCode,
			Passed:        check.Passed,
			Violation:     check.Violation,
		})
	}
	for _, action := range actions {
		response.Actions = append(response.Actions, &dto.ActionExecutionResponse{
			Id:         action.Id,
			ActionType: action.ActionType,
			Status:     action.Status,
			Request:    action.Request,
			Response:   action.Response,
			StartedAt:  action.StartedAt,
			FinishedAt: action.FinishedAt,
		})
	}
	return response, nil
}

func toDecisionEventResponse(event *entity.DecisionEvent) *dto.DecisionEventResponse {
	return &dto.DecisionEventResponse{
		Id:               event.Id,
		SessionId:        event.SessionId,
		TurnId:           event.TurnId,
		Kind:             event.Kind,
		Reason:           event.Reason,
		CostUSD:          event.CostUSD,
		PromptTokens:     event.PromptTokens,
		CompletionTokens: event.CompletionTokens,
		TotalTokens:      event.TotalTokens,
		LatencyMs:        event.LatencyMs,
		CreatedAt:        event.CreatedAt,
	}
}
