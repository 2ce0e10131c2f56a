package services

import (
	"context"
	"errors"
	"slipflow/helpers"
	"slipflow/models"
	"slipflow/providers/ocr"
)

var ErrNoReceiverMatch = errors.New("no tenant owns the receiving account")

// tenantDirectory is the slice of BankDirectory the matcher needs.
type tenantDirectory interface {
	ActiveTenants() ([]models.Tenant, error)
	AccountsFor(tenant *models.Tenant) ([]models.BankAccount, error)
}

// ReceiverMatcher maps a slip's receiving side to the tenant that owns the
// account. Purely cache-driven, so a warm directory keeps matching alive
// even when the admin backend is down.
type ReceiverMatcher struct {
	Dir tenantDirectory
}

// Match scans tenants in ascending id order and returns the first whose
// directory matches. Shared account numbers across tenants are ambiguous;
// iteration order is the only tie-break.
func (m *ReceiverMatcher) Match(ctx context.Context, receiver ocr.Party) (*models.Tenant, error) {
	tenants, err := m.Dir.ActiveTenants()
	if err != nil {
		return nil, err
	}

	for i := range tenants {
		tenant := &tenants[i]
		accounts, err := m.Dir.AccountsFor(tenant)
		if err != nil {
			// One tenant's cold cache must not hide the others.
			continue
		}
		if matchesTenant(tenant, accounts, receiver) {
			return tenant, nil
		}
	}
	return nil, ErrNoReceiverMatch
}

// matchesTenant evaluates the three receiver rules in fixed priority order
// against every cached account: bank identity, account digits, display name.
func matchesTenant(tenant *models.Tenant, accounts []models.BankAccount, receiver ocr.Party) bool {
	for _, acc := range accounts {
		if receiver.Bank != "" && acc.BankCode != "" && BankLabelsMatch(receiver.Bank, acc.BankCode) {
			return true
		}
	}
	for _, acc := range accounts {
		if helpers.SharesDigitRun(receiver.Account, acc.AccountNo, tenant.DigitRun()) {
			return true
		}
	}
	for _, acc := range accounts {
		if receiverNameMatches(tenant, acc, receiver) {
			return true
		}
	}
	return false
}

func receiverNameMatches(tenant *models.Tenant, acc models.BankAccount, receiver ocr.Party) bool {
	run := tenant.NameRun()
	for _, slipName := range []string{receiver.Name, receiver.NameEN} {
		if slipName == "" {
			continue
		}
		for _, cachedName := range []string{acc.NameTH, acc.NameEN} {
			if cachedName == "" {
				continue
			}
			if helpers.NamesOverlap(slipName, cachedName, run) {
				return true
			}
		}
	}
	return false
}
