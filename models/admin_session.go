package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminSession holds the bearer token for a tenant's admin backend.
// At most one row per tenant; a new login overwrites the previous one.
type AdminSession struct {
	gorm.Model

	TenantID  uint      `gorm:"uniqueIndex" json:"tenant_id"`
	Token     string    `gorm:"size:512" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

func (s *AdminSession) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
