package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
)

// accountCategory maps reference keywords to a canonical chart position.
// The leading digit of the code fixes the account type.
type accountCategory struct {
	keywords []string
	code     string
	name     string
}

// Checked in order; the first keyword hit wins, so more specific categories
// sit above broader ones ("cash" must not swallow "petty cash receivable").
var accountCategories = []accountCategory{
	{keywords: []string{"inventory", "stock"}, code: "1300", name: "Inventory"},
	{keywords: []string{"bank"}, code: "1100", name: "Bank"},
	{keywords: []string{"receivable"}, code: "1200", name: "Accounts Receivable"},
	{keywords: []string{"payable"}, code: "2000", name: "Accounts Payable"},
	{keywords: []string{"cash"}, code: "1000", name: "Cash"},
	{keywords: []string{"revenue", "sales", "income"}, code: "4000", name: "Revenue"},
	{keywords: []string{"expense", "cost"}, code: "5000", name: "General Expenses"},
}

// matchCategory returns the first category whose keyword occurs in the reference.
func matchCategory(reference string) (accountCategory, bool) {
	lower := strings.ToLower(reference)
	for _, category := range accountCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				return category, true
			}
		}
	}
	return accountCategory{}, false
}

// resolverService maps free-form account references to concrete accounts.
type resolverService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewResolverService creates a new resolver service
func NewResolverService(repo portsrepo.AccountRepositoryFacade) portssvc.ResolverSvc {
	return &resolverService{
		accountRepo: repo,
	}
}

// Ensure resolverService implements the ResolverSvc interface
var _ portssvc.ResolverSvc = (*resolverService)(nil)

// ResolveAccount walks the resolution tiers in order and stops at the first
// hit: name/code match, category lookup, category account creation, and
// finally any existing account. Only a tenant with zero accounts fails.
func (s *resolverService) ResolveAccount(ctx context.Context, tenantID string, companyID *string, reference string, callerID string) (*domain.Resolution, error) {
	ref := strings.TrimSpace(reference)

	// Tier 1: exact or partial match on account name or code.
	if ref != "" {
		matches, err := s.accountRepo.FindAccountsByNameOrCode(ctx, tenantID, companyID, ref)
		if err != nil {
			s.LogError(ctx, err, "Failed to search accounts by name or code",
				slog.String("reference", ref),
				slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to search accounts for %q: %w", ref, err)
		}
		if len(matches) > 0 {
			account := pickBestMatch(matches, ref)
			s.LogDebug(ctx, "Reference resolved by name/code match",
				slog.String("reference", ref),
				slog.String("account_id", account.AccountID))
			return &domain.Resolution{Account: account, Tier: domain.TierMatch}, nil
		}
	}

	// Tiers 2 and 3: semantic category. Look for an existing account in the
	// category's code range, creating the canonical account when none exists.
	if category, ok := matchCategory(ref); ok {
		digit := category.code[:1]
		candidates, err := s.accountRepo.FindAccountsByCodePrefix(ctx, tenantID, companyID, digit)
		if err != nil {
			s.LogError(ctx, err, "Failed to search accounts by code prefix",
				slog.String("prefix", digit),
				slog.String("tenant_id", tenantID))
			return nil, fmt.Errorf("failed to search accounts with code prefix %q: %w", digit, err)
		}
		if len(candidates) > 0 {
			s.LogDebug(ctx, "Reference resolved by category",
				slog.String("reference", ref),
				slog.String("category", category.name),
				slog.String("account_id", candidates[0].AccountID))
			return &domain.Resolution{Account: candidates[0], Tier: domain.TierCategory}, nil
		}

		account, err := s.createCategoryAccount(ctx, tenantID, companyID, category, callerID)
		if err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Created account for unresolved category reference",
			slog.String("reference", ref),
			slog.String("account_id", account.AccountID),
			slog.String("code", account.Code))
		return &domain.Resolution{Account: *account, Tier: domain.TierCreated}, nil
	}

	// Tier 4: any account at all, lowest code first. Deliberately weak, so the
	// resolution carries a warning the caller can surface for review.
	fallback, err := s.accountRepo.ListAccounts(ctx, tenantID, companyID, 1, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for fallback resolution",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts for fallback: %w", err)
	}
	if len(fallback) == 0 {
		// Tier 5: nothing to fall back to.
		s.LogWarn(ctx, "No accounts exist for tenant, resolution failed",
			slog.String("reference", ref),
			slog.String("tenant_id", tenantID))
		return nil, apperrors.NewResolutionError(ref, tenantID)
	}

	account := fallback[0]
	warning := fmt.Sprintf("no account matched %q; guessed account %s (%s), needs review", ref, account.Code, account.Name)
	s.LogWarn(ctx, "Reference resolved by fallback to arbitrary account",
		slog.String("reference", ref),
		slog.String("account_id", account.AccountID))
	return &domain.Resolution{Account: account, Tier: domain.TierFallback, Warning: warning}, nil
}

// createCategoryAccount inserts the canonical account for a category. Two
// concurrent resolutions of the same brand-new category must not create two
// accounts, so the write goes through the if-absent upsert and whichever row
// survives is returned.
func (s *resolverService) createCategoryAccount(ctx context.Context, tenantID string, companyID *string, category accountCategory, callerID string) (*domain.Account, error) {
	accountType, ok := domain.AccountTypeForCode(category.code)
	if !ok {
		return nil, fmt.Errorf("category %s has no type for code %s", category.name, category.code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		CompanyID:   companyID,
		Code:        category.code,
		Name:        category.name,
		AccountType: accountType,
		Description: fmt.Sprintf("Auto-created for %s references", strings.ToLower(category.name)),
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}

	survivor, err := s.accountRepo.CreateAccountIfAbsent(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to create category account",
			slog.String("code", category.code),
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to create account for category %s: %w", category.name, err)
	}
	return survivor, nil
}

// pickBestMatch prefers an exact (case-insensitive) name or code hit over the
// first partial match. Matches arrive ordered by code ascending.
func pickBestMatch(accounts []domain.Account, reference string) domain.Account {
	lower := strings.ToLower(reference)
	for _, account := range accounts {
		if strings.ToLower(account.Name) == lower || strings.ToLower(account.Code) == lower {
			return account
		}
	}
	return accounts[0]
}
