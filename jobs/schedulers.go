package jobs

import (
	"context"
	"log"
	"os"
	"slipflow/services"
	tasks "slipflow/task"
	"strconv"
	"time"
)

// StartDirectoryScheduler refreshes every active tenant's bank directory on
// an interval, independent of request-triggered refreshes.
func StartDirectoryScheduler() {
	interval := 5 * time.Minute
	if v := os.Getenv("DIRECTORY_REFRESH_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			interval = time.Duration(parsed) * time.Second
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		for {
			<-ticker.C
			refreshAll()
		}
	}()
}

func refreshAll() {
	p := services.Default()
	tenants, err := p.Directory.ActiveTenants()
	if err != nil {
		log.Printf("❌ directory scheduler: list tenants: %v", err)
		return
	}
	for i := range tenants {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := p.Directory.Refresh(ctx, &tenants[i]); err != nil {
			log.Printf("⚠️  scheduled refresh failed for tenant %d: %v", tenants[i].ID, err)
		}
		cancel()
	}
}

// StartRetentionScheduler runs the stale-transaction sweep hourly.
func StartRetentionScheduler() {
	ticker := time.NewTicker(time.Hour)
	go func() {
		for {
			<-ticker.C
			tasks.CleanupStaleTransactions()
		}
	}()
}
