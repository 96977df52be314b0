package repositories

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsByNameOrCode retrieves accounts whose name or code matches the
	// given pattern, case-insensitively, scoped to a tenant and optional company.
	// Results are ordered by code ascending.
	FindAccountsByNameOrCode(ctx context.Context, tenantID string, companyID *string, pattern string) ([]domain.Account, error)

	// FindAccountsByCodePrefix retrieves accounts whose code starts with the
	// given prefix, scoped to a tenant and optional company, ordered by code
	// ascending.
	FindAccountsByCodePrefix(ctx context.Context, tenantID string, companyID *string, prefix string) ([]domain.Account, error)

	// ListAccounts retrieves accounts for a tenant (and optional company),
	// ordered by code ascending, with limit/offset pagination.
	ListAccounts(ctx context.Context, tenantID string, companyID *string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// CreateAccountIfAbsent inserts the account unless one with the same
	// (tenant, company, code) already exists, and returns the surviving row.
	// Safe to call concurrently; exactly one account wins.
	CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
