package controller

import (
	"channelpass-be/internal/dto"
	"channelpass-be/internal/pkg/serverutils"
	"channelpass-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICheckoutController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type checkoutController struct {
	service service.ICheckoutService
}

func NewCheckoutController(service service.ICheckoutService) ICheckoutController {
	return &checkoutController{service: service}
}

func (c *checkoutController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/checkout")
	h.Post("/", c.Checkout)
	h.Post("/gateway/notification", c.Webhook)
}

func (c *checkoutController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.InitiateCheckout(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *checkoutController) Webhook(ctx *fiber.Ctx) error {
	var req dto.GatewayWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid notification body"))
	}

	if err := c.service.HandleNotification(ctx.UserContext(), &req); err != nil {
		// The gateway retries on non-2xx; only signal it for real faults.
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(fiber.Map{"status": "ok"})
}
