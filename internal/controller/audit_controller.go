package controller

import (
	"convo-commerce-be/internal/dto"
	"convo-commerce-be/internal/pkg/serverutils"
	"convo-commerce-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuditController interface {
	RegisterRoutes(r fiber.Router)
	ListDecisions(ctx *fiber.Ctx) error
	ShowDecision(ctx *fiber.Ctx) error
}

type auditController struct {
	auditService service.IAuditService
}

func NewAuditController(auditService service.IAuditService) IAuditController {
	return &auditController{
		auditService: auditService,
	}
}

func (c *auditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("decisions", c.ListDecisions)
	h.Get("decisions/:id", c.ShowDecision)
}

func (c *auditController) ListDecisions(ctx *fiber.Ctx) error {
	tenantId := serverutils.TenantID(ctx)

	req := dto.ListDecisionsRequest{
		Kind:   ctx.Query("kind"),
		Limit:  ctx.QueryInt("limit"),
		Offset: ctx.QueryInt("offset"),
	}
	if raw := ctx.Query("session_id"); raw != "" {
		sessionId, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session_id filter")
		}
		req.SessionId = &sessionId
	}

	res, err := c.auditService.ListDecisions(ctx.Context(), tenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list decisions", res))
}

func (c *auditController) ShowDecision(ctx *fiber.Ctx) error {
	tenantId := serverutils.TenantID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid decision id")
	}

	res, err := c.auditService.ShowDecision(ctx.Context(), tenantId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show decision", res))
}
