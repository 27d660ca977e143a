package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtMiddleware authenticates the caller and resolves the tenant scope.
// Every protected route reads the tenant from Locals, never from the
// request body, so a caller can never address another tenant's data.
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	tenantIdStr, ok := claims["tenant_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing tenant claim"})
	}
	if _, err := uuid.Parse(tenantIdStr); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid tenant claim"})
	}

	ctx.Locals("tenant_id", tenantIdStr)
	return ctx.Next()
}

// TenantID reads the authenticated tenant set by JwtMiddleware.
func TenantID(ctx *fiber.Ctx) uuid.UUID {
	tenantIdStr, _ := ctx.Locals("tenant_id").(string)
	tenantId, _ := uuid.Parse(tenantIdStr)
	return tenantId
}
