package transaction

import (
	"slipflow/database"
	"slipflow/helpers"
	"slipflow/models"

	"github.com/gofiber/fiber/v2"
)

// ListTransactions is the polling fallback for consoles without a live
// socket. Filterable by tenant and status.
func ListTransactions(c *fiber.Ctx) error {
	query := database.DB.Model(&models.PendingTransaction{}).Order("created_at desc").Limit(200)

	if tenantID := c.Query("tenant_id"); tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var txns []models.PendingTransaction
	if err := query.Find(&txns).Error; err != nil {
		return helpers.JSONServerError(c, "FAILED_TO_LIST_TRANSACTIONS")
	}
	return helpers.JSONSuccess(c, "OK", txns)
}
