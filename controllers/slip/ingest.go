package slip

import (
	"errors"
	"io"
	"slipflow/database"
	"slipflow/helpers"
	"slipflow/models"
	"slipflow/providers/ocr"
	"slipflow/services"

	"github.com/gofiber/fiber/v2"
)

// IngestSlip handles an operator's manual multipart upload. The tenant_id
// field is an optional hint; without it the receiver matcher decides.
func IngestSlip(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("slip")
	if err != nil {
		return helpers.JSONError(c, "SLIP_IMAGE_REQUIRED")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return helpers.JSONError(c, "SLIP_IMAGE_UNREADABLE")
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return helpers.JSONError(c, "SLIP_IMAGE_UNREADABLE")
	}

	var hint *models.Tenant
	if tenantID := c.FormValue("tenant_id"); tenantID != "" {
		var tenant models.Tenant
		if err := database.DB.Where("id = ? AND is_active = true", tenantID).First(&tenant).Error; err != nil {
			return helpers.JSONNotFound(c, "TENANT_NOT_FOUND")
		}
		hint = &tenant
	}

	result, err := services.Default().Ingestor.Ingest(c.Context(), image, models.ChannelManual, hint)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateSlip):
			return helpers.JSONConflict(c, "DUPLICATE_SLIP_REFERENCE")
		case errors.Is(err, services.ErrNoReceiverMatch):
			return helpers.JSONNotFound(c, "NO_TENANT_FOR_RECEIVER")
		case errors.Is(err, ocr.ErrUnreadableSlip):
			return helpers.JSONError(c, "SLIP_NOT_READABLE")
		default:
			return helpers.JSONServerError(c, "SLIP_INGESTION_FAILED")
		}
	}

	return helpers.JSONSuccess(c, "SLIP_INGESTED", result)
}
