package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	"github.com/ledgerforge/ledger_engine/internal/models"
	"github.com/ledgerforge/ledger_engine/internal/utils/mapping"
)

type PgxServiceTokenRepository struct {
	BaseRepository
}

// newPgxServiceTokenRepository creates a new repository for service token data.
func newPgxServiceTokenRepository(pool *pgxpool.Pool) portsrepo.ServiceTokenRepository {
	return &PgxServiceTokenRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxServiceTokenRepository implements portsrepo.ServiceTokenRepository
var _ portsrepo.ServiceTokenRepository = (*PgxServiceTokenRepository)(nil)

const (
	serviceTokensTable = "service_tokens"

	selectServiceTokenFields = `
		token_id, tenant_id, name, token_hash, created_by,
		last_used_at, expires_at, revoked_at, created_at, updated_at
	`

	insertServiceTokenQuery = `
		INSERT INTO ` + serviceTokensTable + ` (` + selectServiceTokenFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	findServiceTokenByIDQuery = `
		SELECT ` + selectServiceTokenFields + `
		FROM ` + serviceTokensTable + `
		WHERE token_id = $1
	`

	findServiceTokensByTenantIDQuery = `
		SELECT ` + selectServiceTokenFields + `
		FROM ` + serviceTokensTable + `
		WHERE tenant_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`

	markServiceTokenUsedQuery = `
		UPDATE ` + serviceTokensTable + `
		SET last_used_at = $2, updated_at = $2
		WHERE token_id = $1
	`

	revokeServiceTokenQuery = `
		UPDATE ` + serviceTokensTable + `
		SET revoked_at = $2, updated_at = $2
		WHERE token_id = $1 AND revoked_at IS NULL
	`

	revokeExpiredServiceTokensQuery = `
		UPDATE ` + serviceTokensTable + `
		SET revoked_at = $1, updated_at = $1
		WHERE expires_at < $1 AND revoked_at IS NULL
	`
)

// scanServiceToken scans a service token from a row
func scanServiceToken(row pgx.Row) (*models.ServiceToken, error) {
	var m models.ServiceToken
	err := row.Scan(
		&m.TokenID,
		&m.TenantID,
		&m.Name,
		&m.TokenHash,
		&m.CreatedBy,
		&m.LastUsedAt,
		&m.ExpiresAt,
		&m.RevokedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persists a new service token
func (r *PgxServiceTokenRepository) Create(ctx context.Context, token *domain.ServiceToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	m := mapping.ToModelServiceToken(*token)

	_, err := r.Pool.Exec(ctx, insertServiceTokenQuery,
		m.TokenID,
		m.TenantID,
		m.Name,
		m.TokenHash,
		m.CreatedBy,
		m.LastUsedAt,
		m.ExpiresAt,
		m.RevokedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert service token %s: %w", m.TokenID, err)
	}
	return nil
}

// FindByID retrieves a service token by its ID
func (r *PgxServiceTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.ServiceToken, error) {
	if tokenID == "" {
		return nil, errors.New("token ID cannot be empty")
	}

	m, err := scanServiceToken(r.Pool.QueryRow(ctx, findServiceTokenByIDQuery, tokenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service token %s: %w", tokenID, err)
	}

	domainToken := mapping.ToDomainServiceToken(*m)
	return &domainToken, nil
}

// FindByTenantID retrieves all non-revoked service tokens for a tenant
func (r *PgxServiceTokenRepository) FindByTenantID(ctx context.Context, tenantID string) ([]domain.ServiceToken, error) {
	if tenantID == "" {
		return nil, errors.New("tenant ID cannot be empty")
	}

	rows, err := r.Pool.Query(ctx, findServiceTokensByTenantIDQuery, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service tokens for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	tokens := []domain.ServiceToken{}
	for rows.Next() {
		m, err := scanServiceToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service token row: %w", err)
		}
		tokens = append(tokens, mapping.ToDomainServiceToken(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service token rows: %w", err)
	}

	return tokens, nil
}

// MarkUsed updates the last_used_at timestamp of a token
func (r *PgxServiceTokenRepository) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, markServiceTokenUsedQuery, tokenID, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark service token %s used: %w", tokenID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Revoke marks a token as revoked; revoked tokens never validate again
func (r *PgxServiceTokenRepository) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, revokeServiceTokenQuery, tokenID, revokedAt)
	if err != nil {
		return fmt.Errorf("failed to revoke service token %s: %w", tokenID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RevokeExpired revokes every token whose expiry has passed
func (r *PgxServiceTokenRepository) RevokeExpired(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		return 0, errors.New("invalid time provided")
	}

	cmdTag, err := r.Pool.Exec(ctx, revokeExpiredServiceTokensQuery, before)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke expired service tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
