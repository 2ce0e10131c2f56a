package services

import (
	"context"
	"errors"
	"log"
	"slipflow/models"
	"slipflow/providers/adminapi"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoSession means the tenant has no usable admin-backend token. Callers
// degrade (skip sender matching, use cached directory) instead of failing.
var ErrNoSession = errors.New("no active admin session for tenant")

// SessionManager owns the per-tenant admin session. Single writer per
// tenant: a new login upserts over the previous row.
type SessionManager struct {
	DB *gorm.DB

	// NewClient builds the admin client for a base URL and token.
	// Swapped for a stub in tests.
	NewClient func(baseURL, token string) adminapi.API
}

func NewSessionManager(db *gorm.DB) *SessionManager {
	return &SessionManager{
		DB: db,
		NewClient: func(baseURL, token string) adminapi.API {
			return adminapi.New(baseURL, token)
		},
	}
}

// ClientFor returns an admin client bound to the tenant's current session
// token. Logs in with the tenant's stored credentials when the session is
// missing or expired.
func (m *SessionManager) ClientFor(ctx context.Context, tenant *models.Tenant) (adminapi.API, error) {
	var session models.AdminSession
	err := m.DB.Where("tenant_id = ?", tenant.ID).First(&session).Error
	if err == nil && !session.Expired() {
		return m.NewClient(tenant.AdminBaseURL, session.Token), nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return m.login(ctx, tenant)
}

func (m *SessionManager) login(ctx context.Context, tenant *models.Tenant) (adminapi.API, error) {
	if tenant.AdminUsername == "" {
		return nil, ErrNoSession
	}

	login := adminapi.New(tenant.AdminBaseURL, "")
	token, expiresAt, err := login.Login(ctx, tenant.AdminUsername, tenant.AdminPassword)
	if err != nil {
		log.Printf("❌ admin login failed for tenant %d: %v", tenant.ID, err)
		return nil, ErrNoSession
	}

	session := models.AdminSession{
		TenantID:  tenant.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := m.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
	}).Create(&session).Error; err != nil {
		return nil, err
	}
	return m.NewClient(tenant.AdminBaseURL, token), nil
}
