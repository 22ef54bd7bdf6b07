package handler

import (
	"context"
	"os"

	"channelpass-be/internal/pkg/logger"
	internalWS "channelpass-be/internal/websocket"
	"channelpass-be/pkg/events"
	pktNats "channelpass-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LiveFeedHandler bridges the NATS event stream to the admin dashboard
// websocket: every lifecycle and payment event published to the bus shows up
// on connected dashboards in real time.
type LiveFeedHandler struct {
	subscriber *pktNats.Subscriber
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewLiveFeedHandler(subscriber *pktNats.Subscriber, hub *internalWS.Hub, log logger.ILogger) *LiveFeedHandler {
	return &LiveFeedHandler{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

// Start wires the durable NATS consumer into the hub.
func (h *LiveFeedHandler) Start() error {
	if h.subscriber == nil {
		h.logger.Warn("LiveFeed", "NATS subscriber not configured, live feed disabled", nil)
		return nil
	}
	return h.subscriber.Subscribe("events.>", "live-feed", func(ctx context.Context, event events.Event) error {
		h.hub.Broadcast(event.EventType(), event.Payload())
		return nil
	})
}

// ServeWs upgrades an admin connection onto the feed. Browsers cannot set
// headers on websocket handshakes, so the token also rides a query param.
func (h *LiveFeedHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("LiveFeed", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *LiveFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/admin/live", h.ServeWs)
}
