package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusMatched   = "matched"
	StatusCredited  = "credited"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

const (
	ChannelWebhook = "webhook_push"
	ChannelManual  = "manual_upload"
)

// PendingTransaction is one observed slip. The unique index on SlipRef is
// the duplicate guard: two concurrent submissions of the same transfer race
// on the constraint, not on an application-level read.
type PendingTransaction struct {
	gorm.Model

	SlipRef  string `gorm:"size:64;uniqueIndex;not null" json:"slip_ref"`
	TenantID uint   `gorm:"index" json:"tenant_id"`
	Channel  string `gorm:"size:16" json:"channel"`

	Amount          decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	TransferDate    string          `gorm:"size:40" json:"transfer_date"`
	SenderName      string          `gorm:"size:128" json:"sender_name"`
	SenderAccount   string          `gorm:"size:32" json:"sender_account"`
	ReceiverName    string          `gorm:"size:128" json:"receiver_name"`
	ReceiverAccount string          `gorm:"size:32" json:"receiver_account"`

	// Decoded slip as returned by the OCR provider, kept for audit/replay.
	RawSlip datatypes.JSON `gorm:"type:jsonb" json:"raw_slip"`

	MatchedUserID   *int64  `json:"matched_user_id"`
	MatchedUsername *string `gorm:"size:128" json:"matched_username"`
	MatchedCategory string  `gorm:"size:16" json:"matched_category"`

	Status       string `gorm:"size:16;index" json:"status"`
	ErrorMessage string `gorm:"size:255" json:"error_message"`
}

func (t *PendingTransaction) Terminal() bool {
	return t.Status == StatusCredited || t.Status == StatusDuplicate
}
