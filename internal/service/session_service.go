package service

import (
	"context"

	"convo-commerce-be/internal/dto"
	"convo-commerce-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionService interface {
	Show(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) (*dto.ShowSessionResponse, error)
	Transition(ctx context.Context, tenantId uuid.UUID, request *dto.TransitionSessionRequest) (*dto.TransitionSessionResponse, error)
}

type sessionService struct {
	machine *lifecycle.Machine
}

func NewSessionService(machine *lifecycle.Machine) ISessionService {
	return &sessionService{
		machine: machine,
	}
}

func (ss *sessionService) Show(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) (*dto.ShowSessionResponse, error) {
	session, err := ss.machine.Get(ctx, tenantId, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.ShowSessionResponse{
		Id:         session.Id,
		BotId:      session.BotId,
		BotVersion: session.BotVersion,
		Channel:    session.Channel,
		State:      session.State,
		Version:    session.Version,
		Metadata:   session.Metadata,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}, nil
}

// Transition applies an operator-driven state change, typically forcing a
// handover. The caller supplies the version it last saw so a concurrent
// turn cannot be silently overwritten.
func (ss *sessionService) Transition(ctx context.Context, tenantId uuid.UUID, request *dto.TransitionSessionRequest) (*dto.TransitionSessionResponse, error) {
	target := lifecycle.State(request.TargetState)
	if !lifecycle.IsValid(target) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Unknown target state")
	}

	session, err := ss.machine.Transition(ctx, tenantId, request.Id, target, request.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	return &dto.TransitionSessionResponse{
		Id:      session.Id,
		State:   session.State,
		Version: session.Version,
	}, nil
}
