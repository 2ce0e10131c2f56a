package services

import (
	"context"
	"slipflow/models"
	"slipflow/providers/adminapi"
)

// stubAdmin implements adminapi.API with overridable behavior per method.
type stubAdmin struct {
	listFn     func(ctx context.Context) ([]adminapi.BankAccount, error)
	searchFn   func(ctx context.Context, name, category string) ([]adminapi.User, error)
	depositFn  func(ctx context.Context, req adminapi.DepositRequest) (*adminapi.DepositResult, error)
	firstFn    func(ctx context.Context, req adminapi.DepositRequest) (*adminapi.DepositResult, error)
	withdrawFn func(ctx context.Context, req adminapi.WithdrawRequest) error
}

func (s *stubAdmin) ListBankAccounts(ctx context.Context) ([]adminapi.BankAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubAdmin) SearchUsers(ctx context.Context, name, category string) ([]adminapi.User, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, name, category)
}

func (s *stubAdmin) Deposit(ctx context.Context, req adminapi.DepositRequest) (*adminapi.DepositResult, error) {
	return s.depositFn(ctx, req)
}

func (s *stubAdmin) FirstDeposit(ctx context.Context, req adminapi.DepositRequest) (*adminapi.DepositResult, error) {
	return s.firstFn(ctx, req)
}

func (s *stubAdmin) WithdrawCreditBack(ctx context.Context, req adminapi.WithdrawRequest) error {
	return s.withdrawFn(ctx, req)
}

// stubSessions hands out a fixed client, or an error simulating a tenant
// with no usable admin session.
type stubSessions struct {
	client adminapi.API
	err    error
}

func (s *stubSessions) ClientFor(ctx context.Context, tenant *models.Tenant) (adminapi.API, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

// stubStore records writes in memory.
type stubStore struct {
	created   []*models.PendingTransaction
	saved     []*models.PendingTransaction
	createErr error
	saveErr   error
}

func (s *stubStore) Create(txn *models.PendingTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	txn.ID = uint(len(s.created) + 1)
	s.created = append(s.created, txn)
	return nil
}

func (s *stubStore) Save(txn *models.PendingTransaction) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, txn)
	return nil
}
