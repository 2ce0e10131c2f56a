package transaction

import (
	"errors"
	"slipflow/database"
	"slipflow/helpers"
	"slipflow/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ManualMatch attaches an operator-chosen user to a pending transaction.
func ManualMatch(c *fiber.Ctx) error {
	var body struct {
		MatchedUserID   int64  `json:"matched_user_id"`
		MatchedUsername string `json:"matched_username"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if body.MatchedUserID == 0 || body.MatchedUsername == "" {
		return helpers.JSONError(c, "MATCHED_USER_REQUIRED")
	}

	var txn models.PendingTransaction
	if err := database.DB.First(&txn, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JSONNotFound(c, "TRANSACTION_NOT_FOUND")
		}
		return helpers.JSONServerError(c, "FAILED_TO_LOAD_TRANSACTION")
	}

	if txn.Status != models.StatusPending {
		return helpers.JSONConflict(c, "TRANSACTION_NOT_PENDING")
	}

	txn.MatchedUserID = &body.MatchedUserID
	txn.MatchedUsername = &body.MatchedUsername
	txn.Status = models.StatusMatched
	if err := database.DB.Save(&txn).Error; err != nil {
		return helpers.JSONServerError(c, "FAILED_TO_UPDATE_TRANSACTION")
	}

	return helpers.JSONSuccess(c, "TRANSACTION_MATCHED", txn)
}
