package services

import (
	"context"
	"fmt"
	"log"
	"slipflow/models"
	"sync"
	"time"

	"gorm.io/gorm"
)

// BankDirectory is the read-through cache of every tenant's receiving bank
// accounts. Reads always serve from the cache; staleness past the tenant's
// TTL kicks off a background refresh and never fails the read.
type BankDirectory struct {
	DB       *gorm.DB
	Sessions *SessionManager

	mu         sync.Mutex
	refreshing map[uint]bool
}

func NewBankDirectory(db *gorm.DB, sessions *SessionManager) *BankDirectory {
	return &BankDirectory{
		DB:         db,
		Sessions:   sessions,
		refreshing: make(map[uint]bool),
	}
}

// ActiveTenants returns matchable tenants in ascending id order. The order
// is the receiver matcher's tie-break, so it must be stable.
func (d *BankDirectory) ActiveTenants() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := d.DB.Where("is_active = true").Order("id asc").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// AccountsFor serves the tenant's cached directory. A cold cache is filled
// synchronously; a stale one is refreshed in the background while the stale
// rows are returned.
func (d *BankDirectory) AccountsFor(tenant *models.Tenant) ([]models.BankAccount, error) {
	accounts, err := d.cached(tenant.ID)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.Refresh(ctx, tenant); err != nil {
			return nil, fmt.Errorf("bank directory cold for tenant %d: %w", tenant.ID, err)
		}
		return d.cached(tenant.ID)
	}

	if d.stale(accounts, tenant.CacheTTL()) {
		d.refreshAsync(tenant)
	}
	return accounts, nil
}

func (d *BankDirectory) cached(tenantID uint) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	if err := d.DB.Where("tenant_id = ?", tenantID).Order("id asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (d *BankDirectory) stale(accounts []models.BankAccount, ttl time.Duration) bool {
	newest := accounts[0].RefreshedAt
	for _, a := range accounts[1:] {
		if a.RefreshedAt.After(newest) {
			newest = a.RefreshedAt
		}
	}
	return time.Since(newest) > ttl
}

// refreshAsync runs Refresh detached from the triggering request, at most
// one in flight per tenant.
func (d *BankDirectory) refreshAsync(tenant *models.Tenant) {
	d.mu.Lock()
	if d.refreshing[tenant.ID] {
		d.mu.Unlock()
		return
	}
	d.refreshing[tenant.ID] = true
	d.mu.Unlock()

	t := *tenant
	go func() {
		defer func() {
			d.mu.Lock()
			delete(d.refreshing, t.ID)
			d.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.Refresh(ctx, &t); err != nil {
			log.Printf("⚠️  background directory refresh failed for tenant %d: %v", t.ID, err)
		}
	}()
}

// Refresh replaces the tenant's cached rows with the admin backend's current
// account list.
func (d *BankDirectory) Refresh(ctx context.Context, tenant *models.Tenant) error {
	client, err := d.Sessions.ClientFor(ctx, tenant)
	if err != nil {
		return err
	}

	fetched, err := client.ListBankAccounts(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	return d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("tenant_id = ?", tenant.ID).Delete(&models.BankAccount{}).Error; err != nil {
			return err
		}
		for _, acc := range fetched {
			row := models.BankAccount{
				TenantID:    tenant.ID,
				ExternalID:  acc.ID,
				AccountNo:   acc.AccountNo,
				NameTH:      acc.NameTH,
				NameEN:      acc.NameEN,
				BankCode:    acc.BankCode,
				RefreshedAt: now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
