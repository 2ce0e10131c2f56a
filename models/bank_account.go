package models

import (
	"time"

	"gorm.io/gorm"
)

// BankAccount is a cached copy of one of the tenant's receiving accounts
// as reported by the admin backend. Rows are replaced wholesale on refresh.
type BankAccount struct {
	gorm.Model

	TenantID uint `gorm:"index" json:"tenant_id"`

	// Ledger-account id on the admin backend, required to post a credit.
	ExternalID int64 `gorm:"index" json:"external_id"`

	// Display number as the backend shows it, possibly masked.
	AccountNo string `gorm:"size:32" json:"account_no"`

	NameTH   string `gorm:"size:128" json:"name_th"`
	NameEN   string `gorm:"size:128" json:"name_en"`
	BankCode string `gorm:"size:32" json:"bank_code"`

	RefreshedAt time.Time `gorm:"index" json:"refreshed_at"`
}
