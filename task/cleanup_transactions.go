package tasks

import (
	"log"
	"os"
	"slipflow/database"
	"slipflow/models"
	"strconv"
	"time"
)

// retainedStatuses are exempt from the sweep: credited and duplicate both
// witness a transfer the ledger really recorded, and their slip_ref must
// keep blocking a resubmission of the same slip.
var retainedStatuses = []string{models.StatusCredited, models.StatusDuplicate}

// CleanupStaleTransactions purges old records that never reached the
// ledger (pending, matched, failed).
func CleanupStaleTransactions() {
	hours := 168
	if v := os.Getenv("RETENTION_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	result := database.DB.
		Where("status NOT IN ? AND updated_at < ?", retainedStatuses, cutoff).
		Delete(&models.PendingTransaction{})

	if result.Error != nil {
		log.Println("❌ Failed to delete stale transactions:", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("✅ Deleted %d stale transactions older than %dh\n", result.RowsAffected, hours)
	}
}
