package services

import (
	"context"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/ledgerforge/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts by their IDs.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts for a tenant, ordered by code ascending.
	ListAccounts(ctx context.Context, tenantID string, companyID *string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account in the tenant's chart.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's editable fields.
	UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// ResolverSvc resolves free-form account references (names, codes, category
// hints) to concrete accounts, creating canonical accounts on demand when the
// chart has no match.
type ResolverSvc interface {
	// ResolveAccount maps a reference to an account. It never returns an empty
	// result without an error: when the tenant has no accounts at all it fails
	// with a resolution error, otherwise some tier produces an account.
	ResolveAccount(ctx context.Context, tenantID string, companyID *string, reference string, callerID string) (*domain.Resolution, error)
}
