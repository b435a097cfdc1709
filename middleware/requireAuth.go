package middleware

import (
	"strings"

	"student_auth_ms/repository"
	"student_auth_ms/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware gates the passkey ceremony routes: a bearer token must
// validate, carry the access kind, and its subject must still denote an
// existing student. A token for a deleted account is treated the same as an
// invalid one.
func AuthMiddleware(jwt services.IJWTService, db *gorm.DB, repo repository.IStudentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid token",
			})
		}

		kind, subject, err := jwt.ValidateToken(tokenString)
		if err != nil || kind != services.TokenKindAccess {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Could not validate credentials",
			})
		}

		if _, err := repo.GetByMatric(db, services.NormalizeMatricNumber(subject)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Could not validate credentials",
			})
		}

		c.Locals("matricNumber", subject)
		return c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}
