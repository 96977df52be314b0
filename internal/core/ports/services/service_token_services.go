package services

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// ServiceTokenSvc manages API tokens for machine callers such as
// reconciliation and reporting jobs.
type ServiceTokenSvc interface {
	// CreateToken generates a new token for the tenant. The plaintext token is
	// returned exactly once; only its hash is stored.
	CreateToken(ctx context.Context, tenantID, creatorID, name string, expiresIn *time.Duration) (string, *domain.ServiceToken, error)

	// ListTokens returns all non-revoked tokens for a tenant.
	ListTokens(ctx context.Context, tenantID string) ([]domain.ServiceToken, error)

	// RevokeToken revokes a specific token belonging to the tenant.
	RevokeToken(ctx context.Context, tenantID, tokenID string) error

	// ValidateToken checks a presented plaintext token and returns its record
	// when the token is known, unexpired and not revoked.
	ValidateToken(ctx context.Context, tokenString string) (*domain.ServiceToken, error)
}
