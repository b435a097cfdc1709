package middleware

import (
	"student_auth_ms/services"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuthMiddleware gates the create-student route behind the
// admin/service bearer token.
func ServiceAuthMiddleware(jwt services.IJWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid token",
			})
		}

		if err := jwt.ValidateServiceToken(tokenString); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Could not validate credentials",
			})
		}
		return c.Next()
	}
}
