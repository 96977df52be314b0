package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: repo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	// The leading code digit fixes the account type; a mismatch between the
	// requested type and the code is a caller mistake, not something to patch.
	derivedType, ok := domain.AccountTypeForCode(req.Code)
	if !ok {
		return nil, fmt.Errorf("%w: account code %q must start with a digit 1-9", apperrors.ErrValidation, req.Code)
	}
	if derivedType != req.AccountType {
		return nil, fmt.Errorf("%w: account code %q implies type %s, not %s", apperrors.ErrValidation, req.Code, derivedType, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		CompanyID:   req.CompanyID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}

	// Check if the fetched account belongs to the expected tenant
	if account.TenantID != tenantID {
		s.LogDebug(ctx, "Account found but belongs to different tenant",
			slog.String("account_id", accountID),
			slog.String("account_tenant", account.TenantID),
			slog.String("requested_tenant", tenantID))
		// Return NotFound to obscure existence from other tenants
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}

	// Check all accounts belong to the expected tenant
	for _, account := range accounts {
		if account.TenantID != tenantID {
			s.LogDebug(ctx, "Account found but belongs to different tenant",
				slog.String("account_id", account.AccountID),
				slog.String("account_tenant", account.TenantID),
				slog.String("requested_tenant", tenantID))
			return nil, apperrors.ErrNotFound
		}
	}

	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, companyID *string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("tenant_id", tenantID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts for tenant %s: %w", tenantID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}

	s.LogDebug(ctx, "Accounts listed successfully",
		slog.Int("count", len(accounts)),
		slog.String("tenant_id", tenantID))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	// Fetch the existing account
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err // GetAccountByID already logs errors
	}

	// Apply updates
	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	// Update audit fields
	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	err = s.accountRepo.UpdateAccount(ctx, *account)
	if err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("tenant_id", account.TenantID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) error {
	// First verify that the account exists and belongs to the tenant
	_, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err // GetAccountByID already logs errors
	}

	// Deactivate the account. Accounts are never deleted so historical
	// entries keep resolving.
	now := time.Now().UTC()
	err = s.accountRepo.DeactivateAccount(ctx, accountID, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("tenant_id", tenantID))
	return nil
}
