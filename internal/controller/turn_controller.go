package controller

import (
	"convo-commerce-be/internal/dto"
	"convo-commerce-be/internal/pkg/serverutils"
	"convo-commerce-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITurnController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
}

type turnController struct {
	turnService service.ITurnService
}

func NewTurnController(turnService service.ITurnService) ITurnController {
	return &turnController{
		turnService: turnService,
	}
}

func (c *turnController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/turns/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Send)
}

func (c *turnController) Send(ctx *fiber.Ctx) error {
	tenantId := serverutils.TenantID(ctx)

	var req dto.SendTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.turnService.SendTurn(ctx.Context(), tenantId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process turn", res))
}
