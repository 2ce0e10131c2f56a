package services

import (
	"context"
	"errors"
	"log"
	"slipflow/models"
	"slipflow/providers/adminapi"
)

var (
	// ErrAlreadyCredited guards re-crediting a terminal transaction.
	ErrAlreadyCredited = errors.New("transaction already credited or duplicate")
	// ErrNotMatched means no user is attached or the status does not allow
	// an automatic credit attempt.
	ErrNotMatched = errors.New("transaction is not in a creditable state")
	// ErrNotCredited guards withdraw-back on a non-credited transaction.
	ErrNotCredited = errors.New("transaction is not credited")
)

// CreditOutcome reports one credit attempt the way the ingestion envelope
// exposes it. A ledger-side DUPLICATE_WITH_ADMIN_RECORD is a success with
// Duplicate set; the admin backend is the source of truth for true
// financial duplication.
type CreditOutcome struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message,omitempty"`
}

type destinationResolver interface {
	Resolve(ctx context.Context, tenant *models.Tenant, masked string) (int64, error)
}

// CreditEngine owns the transaction lifecycle around the ledger call:
// matched -> credited | duplicate | failed, plus the withdraw-back
// compensating action.
type CreditEngine struct {
	Store    TransactionStore
	Sessions sessionSource
	Resolver destinationResolver
}

// Credit posts the transfer to the tenant's ledger. force is the operator
// override that also permits retrying a failed attempt; nothing ever
// re-credits a credited or duplicate transaction.
func (e *CreditEngine) Credit(ctx context.Context, tenant *models.Tenant, txn *models.PendingTransaction, force bool) (*CreditOutcome, error) {
	if txn.Terminal() {
		return nil, ErrAlreadyCredited
	}
	if txn.MatchedUserID == nil {
		return nil, ErrNotMatched
	}
	if txn.Status != models.StatusMatched && !force {
		return nil, ErrNotMatched
	}

	accountID, err := e.Resolver.Resolve(ctx, tenant, txn.ReceiverAccount)
	if err != nil {
		return e.fail(txn, "destination account unresolved: "+err.Error())
	}

	client, err := e.Sessions.ClientFor(ctx, tenant)
	if err != nil {
		return e.fail(txn, "admin session unavailable")
	}

	req := adminapi.DepositRequest{
		BankAccountID: accountID,
		UserID:        *txn.MatchedUserID,
		Amount:        txn.Amount,
		SlipRef:       txn.SlipRef,
		Note:          "slip " + txn.SlipRef,
	}

	var result *adminapi.DepositResult
	if txn.MatchedCategory == adminapi.CategoryNonMember {
		result, err = client.FirstDeposit(ctx, req)
	} else {
		result, err = client.Deposit(ctx, req)
	}
	if err != nil {
		return e.fail(txn, err.Error())
	}

	if result.Duplicate {
		txn.Status = models.StatusDuplicate
	} else {
		txn.Status = models.StatusCredited
	}
	txn.ErrorMessage = ""
	if err := e.Store.Save(txn); err != nil {
		return nil, err
	}

	return &CreditOutcome{
		Attempted: true,
		Success:   true,
		Duplicate: result.Duplicate,
		Message:   result.Message,
	}, nil
}

// fail records the attempt without losing retryability; the operator can
// force another attempt once the cause is fixed.
func (e *CreditEngine) fail(txn *models.PendingTransaction, message string) (*CreditOutcome, error) {
	txn.Status = models.StatusFailed
	txn.ErrorMessage = message
	if err := e.Store.Save(txn); err != nil {
		return nil, err
	}
	log.Printf("❌ credit failed for slip %s (tenant %d): %s", txn.SlipRef, txn.TenantID, message)
	return &CreditOutcome{Attempted: true, Message: message}, nil
}

// WithdrawBack is the operator-initiated compensating action: it reverses a
// credited transfer on the ledger and reverts the record to matched (user
// still attached) or pending.
func (e *CreditEngine) WithdrawBack(ctx context.Context, tenant *models.Tenant, txn *models.PendingTransaction) error {
	if txn.Status != models.StatusCredited {
		return ErrNotCredited
	}

	client, err := e.Sessions.ClientFor(ctx, tenant)
	if err != nil {
		return err
	}

	req := adminapi.WithdrawRequest{
		Amount:  txn.Amount,
		SlipRef: txn.SlipRef,
		Note:    "withdraw back slip " + txn.SlipRef,
	}
	if txn.MatchedUserID != nil {
		req.UserID = *txn.MatchedUserID
	}
	if err := client.WithdrawCreditBack(ctx, req); err != nil {
		return err
	}

	if txn.MatchedUserID != nil {
		txn.Status = models.StatusMatched
	} else {
		txn.Status = models.StatusPending
	}
	txn.ErrorMessage = ""
	return e.Store.Save(txn)
}
