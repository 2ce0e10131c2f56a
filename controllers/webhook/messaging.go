package webhook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slipflow/models"
	"slipflow/providers/messaging"
	"slipflow/providers/ocr"
	"slipflow/services"

	"github.com/gofiber/fiber/v2"
)

var platform = messaging.NewFromEnv()

// HandleMessaging consumes the messaging-platform webhook. Image messages
// are pulled and run through the ingestion pipeline; the sender gets a text
// summary back. The platform expects 200 regardless of outcome, so every
// per-event failure is absorbed here.
func HandleMessaging(c *fiber.Ctx) error {
	var payload messaging.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.SendStatus(fiber.StatusOK)
	}

	for _, event := range payload.Events {
		if !event.IsImage() {
			continue
		}
		processImageEvent(c.Context(), event)
	}
	return c.SendStatus(fiber.StatusOK)
}

func processImageEvent(ctx context.Context, event messaging.WebhookEvent) {
	image, err := platform.FetchContent(ctx, event.Message.ID)
	if err != nil {
		log.Printf("❌ fetch slip image %s: %v", event.Message.ID, err)
		return
	}

	result, err := services.Default().Ingestor.Ingest(ctx, image, models.ChannelWebhook, nil)
	reply := summarize(result, err)

	if err := platform.ReplyText(ctx, event.ReplyToken, reply); err != nil {
		log.Printf("⚠️  reply failed for message %s: %v", event.Message.ID, err)
		// reply tokens are single-use and short-lived; push reaches the
		// sender directly when the token is already spent
		if event.Source.UserID != "" {
			if err := platform.PushText(ctx, event.Source.UserID, reply); err != nil {
				log.Printf("⚠️  push fallback failed for user %s: %v", event.Source.UserID, err)
			}
		}
	}
}

func summarize(result *services.IngestResult, err error) string {
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateSlip):
			return "สลิปนี้ถูกใช้งานไปแล้ว (duplicate slip)"
		case errors.Is(err, ocr.ErrUnreadableSlip):
			return "อ่านสลิปไม่สำเร็จ กรุณาส่งรูปที่ชัดเจนอีกครั้ง"
		case errors.Is(err, services.ErrNoReceiverMatch):
			return "ไม่พบบัญชีผู้รับในระบบ"
		default:
			return "ระบบขัดข้อง กรุณาลองใหม่อีกครั้ง"
		}
	}

	switch {
	case result.Credit != nil && result.Credit.Duplicate:
		return fmt.Sprintf("รายการ %s เคยถูกบันทึกแล้ว", result.Slip.Ref)
	case result.Credit != nil && result.Credit.Success:
		return fmt.Sprintf("เติมเครดิต %s บาท สำเร็จ (ref %s)", result.Slip.Amount.String(), result.Slip.Ref)
	case result.Status == models.StatusMatched:
		return fmt.Sprintf("รับสลิป %s แล้ว รอดำเนินการ", result.Slip.Ref)
	default:
		return fmt.Sprintf("รับสลิป %s แล้ว รอตรวจสอบผู้โอน", result.Slip.Ref)
	}
}
