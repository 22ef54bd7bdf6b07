package controller

import (
	"channelpass-be/internal/dto"
	"channelpass-be/internal/pkg/serverutils"
	"channelpass-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", serverutils.AdminMiddleware)

	h.Get("/dashboard", c.GetDashboard)
	h.Get("/transactions", c.GetTransactions)
	h.Get("/logs", c.GetLogs)
	h.Post("/payouts", c.CreatePayout)

	h.Post("/channels", c.CreateChannel)
	h.Put("/channels/:id", c.UpdateChannel)
	h.Delete("/channels/:id", c.DeleteChannel)

	h.Post("/subscriptions/:id/pause", c.PauseSubscription)
	h.Post("/subscriptions/:id/resume", c.ResumeSubscription)
	h.Post("/sweep", c.TriggerSweep)
}

func (c *adminController) GetDashboard(ctx *fiber.Ctx) error {
	res, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) GetTransactions(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)
	status := ctx.Query("status")

	res, err := c.service.GetTransactions(ctx.UserContext(), page, limit, status)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Transactions", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 50)
	level := ctx.Query("level")

	res, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, level)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

func (c *adminController) CreatePayout(ctx *fiber.Ctx) error {
	var req dto.PayoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreatePayout(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payout created", res))
}

func (c *adminController) CreateChannel(ctx *fiber.Ctx) error {
	var req dto.ChannelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateChannel(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Channel created", res))
}

func (c *adminController) UpdateChannel(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid channel id"))
	}
	var req dto.ChannelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateChannel(ctx.UserContext(), id, &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Channel updated", res))
}

func (c *adminController) DeleteChannel(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid channel id"))
	}
	if err := c.service.DeleteChannel(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Channel deleted", nil))
}

func (c *adminController) PauseSubscription(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid subscription id"))
	}
	if err := c.service.PauseSubscription(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription paused", nil))
}

func (c *adminController) ResumeSubscription(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid subscription id"))
	}
	if err := c.service.ResumeSubscription(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription resumed", nil))
}

func (c *adminController) TriggerSweep(ctx *fiber.Ctx) error {
	res, err := c.service.TriggerSweep(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Sweep finished", res))
}
