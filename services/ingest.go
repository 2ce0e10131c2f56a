package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slipflow/models"
	"slipflow/providers/adminapi"
	"slipflow/providers/ocr"
	"slipflow/realtime"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrDuplicateSlip = errors.New("slip reference already ingested")

type receiverResolver interface {
	Match(ctx context.Context, receiver ocr.Party) (*models.Tenant, error)
}

type senderResolver interface {
	Match(ctx context.Context, tenant *models.Tenant, names ...string) (*adminapi.User, string, error)
}

type creditor interface {
	Credit(ctx context.Context, tenant *models.Tenant, txn *models.PendingTransaction, force bool) (*CreditOutcome, error)
}

type broadcaster interface {
	Broadcast(event realtime.Event)
}

// IngestResult is the data half of the ingestion response envelope.
type IngestResult struct {
	TransactionID uint           `json:"transaction_id"`
	Tenant        string         `json:"tenant"`
	Slip          SlipSummary    `json:"slip"`
	Sender        SenderSummary  `json:"sender"`
	Status        string         `json:"status"`
	Credit        *CreditOutcome `json:"credit,omitempty"`
}

type SlipSummary struct {
	Ref    string          `json:"ref"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type SenderSummary struct {
	ID      *int64 `json:"id"`
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
}

// Ingestor runs one slip through decode, receiver match, sender match,
// record creation, console fan-out and the optional auto-credit. Matching
// failures degrade the record; only an unreadable slip, an unknown receiver
// or a duplicate reference abort before a record exists.
type Ingestor struct {
	Store    TransactionStore
	Decoder  ocr.SlipDecoder
	Receiver receiverResolver
	Sender   senderResolver
	Credit   creditor
	Hub      broadcaster
}

// Ingest processes one slip image. hint short-circuits receiver matching
// for operator uploads that already know their tenant.
func (ing *Ingestor) Ingest(ctx context.Context, image []byte, channel string, hint *models.Tenant) (*IngestResult, error) {
	slip, err := ing.Decoder.Decode(ctx, image)
	if err != nil {
		return nil, err
	}

	tenant := hint
	if tenant == nil {
		tenant, err = ing.Receiver.Match(ctx, slip.Receiver)
		if err != nil {
			return nil, err
		}
	}

	txn := &models.PendingTransaction{
		SlipRef:         slip.TransRef,
		TenantID:        tenant.ID,
		Channel:         channel,
		Amount:          slip.Amount,
		TransferDate:    slip.Date,
		SenderName:      slip.Sender.Name,
		SenderAccount:   slip.Sender.Account,
		ReceiverName:    slip.Receiver.Name,
		ReceiverAccount: slip.Receiver.Account,
		Status:          models.StatusPending,
	}
	if raw, err := json.Marshal(slip); err == nil {
		txn.RawSlip = datatypes.JSON(raw)
	}

	user, category, err := ing.Sender.Match(ctx, tenant, slip.Sender.Name, slip.Sender.NameEN)
	switch {
	case err == nil:
		txn.MatchedUserID = &user.ID
		txn.MatchedUsername = &user.Username
		txn.MatchedCategory = category
		txn.Status = models.StatusMatched
	case errors.Is(err, ErrNoSenderMatch), errors.Is(err, ErrNoSession):
		// Stays pending for the operator to match by hand.
	default:
		log.Printf("⚠️  sender match degraded for slip %s: %v", slip.TransRef, err)
	}

	// The unique index on slip_ref is the duplicate defense; two concurrent
	// submissions of the same transfer race on the constraint and exactly
	// one row wins.
	if err := ing.Store.Create(txn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlip, slip.TransRef)
		}
		return nil, err
	}

	ing.Hub.Broadcast(realtime.Event{Type: realtime.EventNewPending, Data: txn})

	result := &IngestResult{
		TransactionID: txn.ID,
		Tenant:        tenant.Name,
		Slip:          SlipSummary{Ref: slip.TransRef, Amount: slip.Amount, Date: slip.Date},
		Sender:        SenderSummary{ID: txn.MatchedUserID, Name: slip.Sender.Name, Matched: txn.MatchedUserID != nil},
		Status:        txn.Status,
	}

	if tenant.AutoCredit && txn.Status == models.StatusMatched {
		outcome, err := ing.Credit.Credit(ctx, tenant, txn, false)
		if err != nil {
			log.Printf("❌ auto-credit error for slip %s: %v", slip.TransRef, err)
		} else {
			result.Credit = outcome
		}
		result.Status = txn.Status
	}

	return result, nil
}
