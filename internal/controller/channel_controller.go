package controller

import (
	"channelpass-be/internal/pkg/serverutils"
	"channelpass-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChannelController interface {
	RegisterRoutes(r fiber.Router)
	GetCatalog(ctx *fiber.Ctx) error
	GetBySlug(ctx *fiber.Ctx) error
}

type channelController struct {
	service service.IChannelService
}

func NewChannelController(service service.IChannelService) IChannelController {
	return &channelController{service: service}
}

func (c *channelController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/channels")
	h.Get("/", c.GetCatalog)
	h.Get("/:slug", c.GetBySlug)
}

func (c *channelController) GetCatalog(ctx *fiber.Ctx) error {
	res, err := c.service.GetCatalog(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Channel catalog", res))
}

func (c *channelController) GetBySlug(ctx *fiber.Ctx) error {
	res, err := c.service.GetChannelBySlug(ctx.UserContext(), ctx.Params("slug"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Channel", res))
}
