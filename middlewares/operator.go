package middlewares

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// OperatorAuth guards the console-facing routes with the deployment's
// operator API key.
func OperatorAuth() fiber.Handler {
	expected := os.Getenv("OPERATOR_API_KEY")

	return func(c *fiber.Ctx) error {
		key := c.Get("X-Api-Key")
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_OPERATOR_KEY",
				"data":    nil,
			})
		}
		return c.Next()
	}
}
