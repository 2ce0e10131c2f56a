package transaction

import (
	"errors"
	"slipflow/helpers"
	"slipflow/services"

	"github.com/gofiber/fiber/v2"
)

// WithdrawBack reverses a credited transaction on the ledger and reverts
// the record to matched or pending.
func WithdrawBack(c *fiber.Ctx) error {
	txn, tenant, err := loadWithTenant(c)
	if err != nil {
		return respondLoadError(c, err)
	}

	if err := services.Default().Credit.WithdrawBack(c.Context(), tenant, txn); err != nil {
		if errors.Is(err, services.ErrNotCredited) {
			return helpers.JSONConflict(c, "TRANSACTION_NOT_CREDITED")
		}
		return helpers.JSONServerError(c, "WITHDRAW_BACK_FAILED")
	}

	return helpers.JSONSuccess(c, "WITHDRAW_BACK_COMPLETED", txn)
}
