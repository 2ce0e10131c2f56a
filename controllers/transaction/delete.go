package transaction

import (
	"errors"
	"slipflow/database"
	"slipflow/helpers"
	"slipflow/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeleteTransaction removes a non-credited record. Credited records carry
// the audit trail of a real ledger entry and stay.
func DeleteTransaction(c *fiber.Ctx) error {
	var txn models.PendingTransaction
	if err := database.DB.First(&txn, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JSONNotFound(c, "TRANSACTION_NOT_FOUND")
		}
		return helpers.JSONServerError(c, "FAILED_TO_LOAD_TRANSACTION")
	}

	if txn.Status == models.StatusCredited {
		return helpers.JSONConflict(c, "CANNOT_DELETE_CREDITED_TRANSACTION")
	}

	if err := database.DB.Delete(&txn).Error; err != nil {
		return helpers.JSONServerError(c, "FAILED_TO_DELETE_TRANSACTION")
	}
	return helpers.JSONSuccess(c, "TRANSACTION_DELETED", nil)
}
