package middlewares

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func signedApp(t *testing.T) *fiber.App {
	t.Setenv("MESSAGING_CHANNEL_SECRET", "channel-secret")
	app := fiber.New()
	app.Post("/webhook", VerifyWebhookSignature(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureAccepted(t *testing.T) {
	app := signedApp(t)
	body := []byte(`{"events":[]}`)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Line-Signature", sign("channel-secret", body))

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebhookSignatureRejected(t *testing.T) {
	app := signedApp(t)
	body := []byte(`{"events":[]}`)

	for _, sig := range []string{
		sign("wrong-secret", body),
		"not base64!!!",
		"",
	} {
		req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
		req.Header.Set("X-Line-Signature", sig)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "signature %q", sig)
	}
}

func TestWebhookSignatureBodyTamperRejected(t *testing.T) {
	app := signedApp(t)
	sig := sign("channel-secret", []byte(`{"events":[]}`))

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader([]byte(`{"events":[{}]}`)))
	req.Header.Set("X-Line-Signature", sig)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
