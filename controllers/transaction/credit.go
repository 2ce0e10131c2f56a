package transaction

import (
	"errors"
	"slipflow/database"
	"slipflow/helpers"
	"slipflow/models"
	"slipflow/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ManualCredit forces a credit attempt for a matched (or previously failed)
// transaction. Re-crediting a credited or duplicate record is a conflict.
func ManualCredit(c *fiber.Ctx) error {
	txn, tenant, err := loadWithTenant(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	outcome, err := services.Default().Credit.Credit(c.Context(), tenant, txn, true)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyCredited):
			return helpers.JSONConflict(c, "TRANSACTION_ALREADY_CREDITED")
		case errors.Is(err, services.ErrNotMatched):
			return helpers.JSONConflict(c, "TRANSACTION_NOT_MATCHED")
		default:
			return helpers.JSONServerError(c, "CREDIT_ATTEMPT_FAILED")
		}
	}

	return helpers.JSONSuccess(c, "CREDIT_ATTEMPTED", fiber.Map{
		"transaction": txn,
		"credit":      outcome,
	})
}

func loadWithTenant(c *fiber.Ctx) (*models.PendingTransaction, *models.Tenant, error) {
	var txn models.PendingTransaction
	if err := database.DB.First(&txn, c.Params("id")).Error; err != nil {
		return nil, nil, err
	}
	var tenant models.Tenant
	if err := database.DB.First(&tenant, txn.TenantID).Error; err != nil {
		return nil, nil, err
	}
	return &txn, &tenant, nil
}

func respondLoadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.JSONNotFound(c, "TRANSACTION_NOT_FOUND")
	}
	return helpers.JSONServerError(c, "FAILED_TO_LOAD_TRANSACTION")
}
