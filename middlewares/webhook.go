package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"

	"github.com/gofiber/fiber/v2"
)

// VerifyWebhookSignature checks the messaging platform's HMAC-SHA256
// signature over the raw body before the payload is parsed.
func VerifyWebhookSignature() fiber.Handler {
	secret := os.Getenv("MESSAGING_CHANNEL_SECRET")

	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(c.Body())

		got, err := base64.StdEncoding.DecodeString(c.Get("X-Line-Signature"))
		if err != nil || !hmac.Equal(got, mac.Sum(nil)) {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	}
}
