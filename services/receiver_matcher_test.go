package services

import (
	"context"
	"errors"
	"slipflow/models"
	"slipflow/providers/ocr"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDirectory struct {
	tenants  []models.Tenant
	accounts map[uint][]models.BankAccount
	errFor   map[uint]error
}

func (d *stubDirectory) ActiveTenants() ([]models.Tenant, error) {
	return d.tenants, nil
}

func (d *stubDirectory) AccountsFor(t *models.Tenant) ([]models.BankAccount, error) {
	if err := d.errFor[t.ID]; err != nil {
		return nil, err
	}
	return d.accounts[t.ID], nil
}

func tenantWithID(id uint) models.Tenant {
	t := models.Tenant{Name: "tenant"}
	t.ID = id
	return t
}

func TestReceiverMatchByBankIdentity(t *testing.T) {
	dir := &stubDirectory{
		tenants: []models.Tenant{tenantWithID(1), tenantWithID(2)},
		accounts: map[uint][]models.BankAccount{
			1: {{TenantID: 1, BankCode: "SCB", AccountNo: "999"}},
			2: {{TenantID: 2, BankCode: "KBANK", AccountNo: "888"}},
		},
	}
	m := &ReceiverMatcher{Dir: dir}

	got, err := m.Match(context.Background(), ocr.Party{Bank: "กสิกรไทย"})
	assert.NoError(t, err)
	assert.Equal(t, uint(2), got.ID)
}

func TestReceiverMatchByAccountDigits(t *testing.T) {
	dir := &stubDirectory{
		tenants: []models.Tenant{tenantWithID(1)},
		accounts: map[uint][]models.BankAccount{
			1: {{TenantID: 1, AccountNo: "1112123654456"}},
		},
	}
	m := &ReceiverMatcher{Dir: dir}

	got, err := m.Match(context.Background(), ocr.Party{Account: "xxx-123-xxx-456"})
	assert.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
}

func TestReceiverMatchByDisplayName(t *testing.T) {
	dir := &stubDirectory{
		tenants: []models.Tenant{tenantWithID(1)},
		accounts: map[uint][]models.BankAccount{
			1: {{TenantID: 1, NameTH: "สมหญิง ใจดี", NameEN: "SOMYING JAIDEE"}},
		},
	}
	m := &ReceiverMatcher{Dir: dir}

	got, err := m.Match(context.Background(), ocr.Party{Name: "นางสาวสมหญิง ใจดี"})
	assert.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
}

func TestReceiverMatchNoTenant(t *testing.T) {
	dir := &stubDirectory{
		tenants: []models.Tenant{tenantWithID(1)},
		accounts: map[uint][]models.BankAccount{
			1: {{TenantID: 1, BankCode: "SCB", AccountNo: "1234567890"}},
		},
	}
	m := &ReceiverMatcher{Dir: dir}

	_, err := m.Match(context.Background(), ocr.Party{Bank: "KBANK", Account: "xxx-999", Name: "ใครก็ไม่รู้"})
	assert.ErrorIs(t, err, ErrNoReceiverMatch)
}

func TestReceiverMatchSkipsTenantWithColdCache(t *testing.T) {
	dir := &stubDirectory{
		tenants: []models.Tenant{tenantWithID(1), tenantWithID(2)},
		accounts: map[uint][]models.BankAccount{
			2: {{TenantID: 2, AccountNo: "5551234567"}},
		},
		errFor: map[uint]error{1: errors.New("cold cache")},
	}
	m := &ReceiverMatcher{Dir: dir}

	got, err := m.Match(context.Background(), ocr.Party{Account: "xxx-1234-567"})
	assert.NoError(t, err)
	assert.Equal(t, uint(2), got.ID)
}

// Shared account numbers across tenants are ambiguous; the documented
// behavior is first-in-iteration-order wins.
func TestReceiverMatchTieBreaksByIterationOrder(t *testing.T) {
	shared := []models.BankAccount{{AccountNo: "1234567890"}}
	dir := &stubDirectory{
		tenants:  []models.Tenant{tenantWithID(3), tenantWithID(7)},
		accounts: map[uint][]models.BankAccount{3: shared, 7: shared},
	}
	m := &ReceiverMatcher{Dir: dir}

	for i := 0; i < 10; i++ {
		got, err := m.Match(context.Background(), ocr.Party{Account: "123-456"})
		assert.NoError(t, err)
		assert.Equal(t, uint(3), got.ID)
	}
}
