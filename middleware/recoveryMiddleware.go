package middleware

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				msg := "Caught panic: %v, Stack Trace: %s"
				log.Printf(msg, r, string(debug.Stack()))

				c.Status(fiber.StatusInternalServerError)
			}
		}()
		return c.Next()
	}
}
