package services

import (
	"context"
	"errors"
	"slipflow/helpers"
	"slipflow/models"
	"slipflow/providers/adminapi"
)

var ErrNoSenderMatch = errors.New("payer not found in tenant user directory")

// sessionSource hands out an admin client for a tenant, or ErrNoSession.
type sessionSource interface {
	ClientFor(ctx context.Context, tenant *models.Tenant) (adminapi.API, error)
}

// SenderMatcher resolves the payer of a slip to a user on the tenant's admin
// backend. Members are preferred over non-members; within a category the
// first hit wins. Misattribution between similarly-named users is accepted
// here and corrected by the operator workflow, not by this matcher.
type SenderMatcher struct {
	Sessions sessionSource
}

// Match searches with each payer name variant, honorific stripped. Returns
// the user and the category it was found under.
func (m *SenderMatcher) Match(ctx context.Context, tenant *models.Tenant, names ...string) (*adminapi.User, string, error) {
	client, err := m.Sessions.ClientFor(ctx, tenant)
	if err != nil {
		return nil, "", err
	}

	for _, category := range []string{adminapi.CategoryMember, adminapi.CategoryNonMember} {
		for _, name := range names {
			query := helpers.NormalizeName(name)
			if query == "" {
				continue
			}
			users, err := client.SearchUsers(ctx, query, category)
			if err != nil {
				return nil, "", err
			}
			if len(users) > 0 {
				return &users[0], category, nil
			}
		}
	}
	return nil, "", ErrNoSenderMatch
}
