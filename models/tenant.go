package models

import (
	"time"

	"gorm.io/gorm"
)

type Tenant struct {
	gorm.Model

	Name         string `gorm:"size:64" json:"name"`
	TeamID       uint   `gorm:"index" json:"team_id"`
	AdminBaseURL string `gorm:"size:255" json:"admin_base_url"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Credentials for the tenant's admin backend. Set by provisioning.
	AdminUsername string `gorm:"size:64" json:"-"`
	AdminPassword string `gorm:"size:128" json:"-"`

	// Matching knobs, see receiver matcher.
	MinDigitRun int `gorm:"default:3" json:"min_digit_run"`
	MinNameRun  int `gorm:"default:4" json:"min_name_run"`

	// Bank directory cache TTL in seconds.
	CacheTTLSeconds int `gorm:"default:300" json:"cache_ttl_seconds"`

	// When true, a slip whose sender matched a known user is credited
	// immediately after ingestion.
	AutoCredit bool `gorm:"default:true" json:"auto_credit"`

	BankAccounts []BankAccount  `gorm:"foreignKey:TenantID"`
	Sessions     []AdminSession `gorm:"foreignKey:TenantID"`
}

func (t *Tenant) CacheTTL() time.Duration {
	if t.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(t.CacheTTLSeconds) * time.Second
}

func (t *Tenant) DigitRun() int {
	if t.MinDigitRun <= 0 {
		return 3
	}
	return t.MinDigitRun
}

func (t *Tenant) NameRun() int {
	if t.MinNameRun <= 0 {
		return 4
	}
	return t.MinNameRun
}
