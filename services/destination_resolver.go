package services

import (
	"context"
	"errors"
	"log"
	"slipflow/helpers"
	"slipflow/models"
	"strings"
)

var ErrUnresolvedDestination = errors.New("masked account did not resolve to a ledger account")

// DestinationResolver turns the masked receiving account printed on a slip
// into the numeric ledger-account id the credit API requires.
//
// Strategy order: live exact match first (the admin backend is
// authoritative), then the cached directory with progressively looser
// digit matching. The live call failing must never block crediting when the
// cache can still disambiguate.
type DestinationResolver struct {
	Sessions sessionSource
	Dir      tenantDirectory
}

type resolveStrategy struct {
	name string
	run  func() (int64, bool)
}

// Resolve evaluates the strategy chain until one reports a match.
func (r *DestinationResolver) Resolve(ctx context.Context, tenant *models.Tenant, masked string) (int64, error) {
	live := r.liveAccounts(ctx, tenant)
	cached := func() []models.BankAccount {
		accounts, err := r.Dir.AccountsFor(tenant)
		if err != nil {
			log.Printf("⚠️  cached directory unavailable for tenant %d: %v", tenant.ID, err)
			return nil
		}
		return accounts
	}

	strategies := []resolveStrategy{
		{"live_exact", func() (int64, bool) { return exactMatch(live, masked) }},
		{"cached_exact", func() (int64, bool) { return exactMatch(cached(), masked) }},
		{"cached_chunks", func() (int64, bool) { return chunkMatch(cached(), masked) }},
		{"cached_suffix", func() (int64, bool) { return suffixMatch(cached(), masked) }},
	}

	for _, s := range strategies {
		if id, ok := s.run(); ok {
			log.Printf("🏦 resolved account %s to ledger id %d via %s (tenant %d)", masked, id, s.name, tenant.ID)
			return id, nil
		}
	}
	return 0, ErrUnresolvedDestination
}

// liveAccounts fetches the authoritative list, tolerating failure: a dead
// admin backend just means the live strategy matches nothing.
func (r *DestinationResolver) liveAccounts(ctx context.Context, tenant *models.Tenant) []models.BankAccount {
	client, err := r.Sessions.ClientFor(ctx, tenant)
	if err != nil {
		return nil
	}
	fetched, err := client.ListBankAccounts(ctx)
	if err != nil {
		log.Printf("⚠️  live bank-account fetch failed for tenant %d: %v", tenant.ID, err)
		return nil
	}
	accounts := make([]models.BankAccount, 0, len(fetched))
	for _, acc := range fetched {
		accounts = append(accounts, models.BankAccount{
			TenantID:   tenant.ID,
			ExternalID: acc.ID,
			AccountNo:  acc.AccountNo,
			NameTH:     acc.NameTH,
			NameEN:     acc.NameEN,
			BankCode:   acc.BankCode,
		})
	}
	return accounts
}

func exactMatch(accounts []models.BankAccount, masked string) (int64, bool) {
	want := helpers.Digits(masked)
	if want == "" {
		return 0, false
	}
	for _, acc := range accounts {
		if helpers.Digits(acc.AccountNo) == want {
			return acc.ExternalID, true
		}
	}
	return 0, false
}

// chunkMatch requires every visible digit group of the mask to appear, in
// order, inside the candidate number. Handles masks like xxx-1234-xxx-5678
// without guessing the hidden digits.
func chunkMatch(accounts []models.BankAccount, masked string) (int64, bool) {
	groups := helpers.DigitRuns(masked)
	if len(groups) == 0 {
		return 0, false
	}
	for _, acc := range accounts {
		if containsInOrder(helpers.Digits(acc.AccountNo), groups) {
			return acc.ExternalID, true
		}
	}
	return 0, false
}

func containsInOrder(digits string, groups []string) bool {
	idx := 0
	for _, g := range groups {
		p := strings.Index(digits[idx:], g)
		if p < 0 {
			return false
		}
		idx += p + len(g)
	}
	return true
}

// suffixMatch tries the visible tail of the mask: last 6, then 5, then 4.
func suffixMatch(accounts []models.BankAccount, masked string) (int64, bool) {
	visible := helpers.Digits(masked)
	for _, n := range []int{6, 5, 4} {
		if len(visible) < n {
			continue
		}
		suffix := visible[len(visible)-n:]
		for _, acc := range accounts {
			if strings.HasSuffix(helpers.Digits(acc.AccountNo), suffix) {
				return acc.ExternalID, true
			}
		}
	}
	return 0, false
}
