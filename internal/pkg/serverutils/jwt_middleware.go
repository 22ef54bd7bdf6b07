package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware extracts the authenticated principal from a bearer token.
// Token issuance lives outside this service; we only verify and unpack.
func JwtMiddleware(ctx *fiber.Ctx) error {
	claims, err := parseClaims(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	ctx.Locals("principal_id", claims["principal_id"])
	return ctx.Next()
}

// AdminMiddleware additionally requires the is_admin claim.
func AdminMiddleware(ctx *fiber.Ctx) error {
	claims, err := parseClaims(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if isAdmin, ok := claims["is_admin"].(bool); !ok || !isAdmin {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admin access required"})
	}
	ctx.Locals("principal_id", claims["principal_id"])
	return ctx.Next()
}

func parseClaims(ctx *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
	}
	return claims, nil
}
