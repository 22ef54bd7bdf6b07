package controller

import (
	"channelpass-be/internal/pkg/serverutils"
	"channelpass-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
	GetStatusByCode(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service service.ISubscriptionService
}

func NewSubscriptionController(service service.ISubscriptionService) ISubscriptionController {
	return &subscriptionController{service: service}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	// A buyer holding only their access code has no token yet, so the
	// by-code status lookup stays outside the JWT group.
	r.Get("/subscriptions/status", c.GetStatusByCode)

	h := r.Group("/subscriptions", serverutils.JwtMiddleware)
	h.Get("/", c.List)
	h.Get("/:id", c.GetStatus)
	h.Post("/:id/cancel", c.Cancel)
}

func (c *subscriptionController) GetStatusByCode(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "code is required"))
	}

	res, err := c.service.GetSubscriptionStatusByCode(ctx.UserContext(), code)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid subscription id"))
	}

	res, err := c.service.GetSubscriptionStatus(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) List(ctx *fiber.Ctx) error {
	principalId, ok := ctx.Locals("principal_id").(string)
	if !ok || principalId == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "unauthorized"))
	}

	res, err := c.service.GetSubscriptionsByPrincipal(ctx.UserContext(), principalId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	principalId, ok := ctx.Locals("principal_id").(string)
	if !ok || principalId == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "unauthorized"))
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid subscription id"))
	}

	if err := c.service.CancelSubscription(ctx.UserContext(), id, principalId); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", nil))
}
