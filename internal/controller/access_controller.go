package controller

import (
	"channelpass-be/internal/dto"
	"channelpass-be/internal/pkg/serverutils"
	"channelpass-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAccessController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Check(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
}

type accessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) IAccessController {
	return &accessController{accessService: accessService}
}

func (c *accessController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/access")
	h.Post("/verify", c.Verify)
	h.Get("/check", c.Check)
	h.Post("/regenerate", serverutils.JwtMiddleware, c.Regenerate)
}

// Verify redeems an access code into a grant and hands back the invite link.
func (c *accessController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyAccessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.accessService.VerifyAccessCode(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if !res.Success {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}
	return ctx.JSON(res)
}

func (c *accessController) Check(ctx *fiber.Ctx) error {
	principalId := ctx.Query("principal_id")
	channelIdStr := ctx.Query("channel_id")
	if principalId == "" || channelIdStr == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "principal_id and channel_id are required"))
	}
	channelId, err := uuid.Parse(channelIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid channel_id format"))
	}

	res, err := c.accessService.CheckAccess(ctx.UserContext(), principalId, channelId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

// Regenerate mints a fresh code for a subscription whose mailed code
// lapsed before the buyer redeemed it.
func (c *accessController) Regenerate(ctx *fiber.Ctx) error {
	var req dto.GenerateAccessCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.accessService.GenerateAccessCode(ctx.UserContext(), req.SubscriptionId)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Access code generated", res))
}
