package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	"github.com/ledgerforge/ledger_engine/internal/models"
	"github.com/ledgerforge/ledger_engine/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const (
	selectAccountFields = `
		account_id, tenant_id, company_id, code, name, account_type,
		description, is_active, created_at, created_by, last_updated_at, last_updated_by
	`

	insertAccountQuery = `
		INSERT INTO accounts (` + selectAccountFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	insertAccountIfAbsentQuery = insertAccountQuery + `
		ON CONFLICT (tenant_id, COALESCE(company_id, ''), code) DO NOTHING
	`
)

// scanAccount scans one account row.
func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.CompanyID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// appendCompanyScope narrows a query to a company scope. Company scoped
// lookups also see tenant-wide accounts; tenant-wide lookups see only
// tenant-wide accounts.
func appendCompanyScope(query string, args []interface{}, companyID *string) (string, []interface{}) {
	if companyID == nil {
		return query + " AND company_id IS NULL", args
	}
	args = append(args, *companyID)
	return query + fmt.Sprintf(" AND (company_id = $%d OR company_id IS NULL)", len(args)), args
}

// collectAccounts drains rows into domain accounts.
func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	_, err := r.Pool.Exec(ctx, insertAccountQuery,
		m.AccountID,
		m.TenantID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// CreateAccountIfAbsent inserts the account unless one with the same
// (tenant, company, code) already exists, then returns the surviving row.
// Concurrent callers racing on the same code all get the single winner.
func (r *PgxAccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)

	_, err := r.Pool.Exec(ctx, insertAccountIfAbsentQuery,
		m.AccountID,
		m.TenantID,
		m.CompanyID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account with code %s: %w", m.Code, err)
	}

	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE tenant_id = $1 AND code = $2`
	args := []interface{}{m.TenantID, m.Code}
	if m.CompanyID == nil {
		query += ` AND company_id IS NULL`
	} else {
		args = append(args, *m.CompanyID)
		query += ` AND company_id = $3`
	}

	survivor, err := scanAccount(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account with code %s after upsert: %w", m.Code, err)
	}

	domainAcc := mapping.ToDomainAccount(*survivor)
	return &domainAcc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(*m)
	return &domainAcc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are
// simply absent from the map; the caller decides whether that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}
	return accountsMap, nil
}

// FindAccountsByNameOrCode retrieves accounts whose name or code contains the
// pattern, case-insensitively, ordered by code.
func (r *PgxAccountRepository) FindAccountsByNameOrCode(ctx context.Context, tenantID string, companyID *string, pattern string) ([]domain.Account, error) {
	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE tenant_id = $1 AND (name ILIKE $2 OR code ILIKE $2)`
	args := []interface{}{tenantID, "%" + pattern + "%"}
	query, args = appendCompanyScope(query, args, companyID)
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by name or code: %w", err)
	}
	return collectAccounts(rows)
}

// FindAccountsByCodePrefix retrieves accounts whose code starts with the
// prefix, ordered by code.
func (r *PgxAccountRepository) FindAccountsByCodePrefix(ctx context.Context, tenantID string, companyID *string, prefix string) ([]domain.Account, error) {
	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE tenant_id = $1 AND code LIKE $2 || '%'`
	args := []interface{}{tenantID, prefix}
	query, args = appendCompanyScope(query, args, companyID)
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by code prefix %s: %w", prefix, err)
	}
	return collectAccounts(rows)
}

// ListAccounts retrieves a paginated list of accounts for a tenant. Inactive
// accounts are included; callers read is_active off the result.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, companyID *string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + selectAccountFields + ` FROM accounts WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	query, args = appendCompanyScope(query, args, companyID)
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY code LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	return collectAccounts(rows)
}

// UpdateAccount updates an existing account in the database.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		_, findErr := r.FindAccountByID(ctx, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}

	return nil
}
