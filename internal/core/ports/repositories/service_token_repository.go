package repositories

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// ServiceTokenRepository defines the interface for service token data access operations
type ServiceTokenRepository interface {
	// Create persists a new service token
	Create(ctx context.Context, token *domain.ServiceToken) error

	// FindByID retrieves a service token by its ID
	FindByID(ctx context.Context, tokenID string) (*domain.ServiceToken, error)

	// FindByTenantID retrieves all non-revoked service tokens for a tenant
	FindByTenantID(ctx context.Context, tenantID string) ([]domain.ServiceToken, error)

	// MarkUsed updates the last_used_at timestamp of a token
	MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error

	// Revoke marks a token as revoked; revoked tokens never validate again
	Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error

	// RevokeExpired revokes every token whose expiry has passed
	RevokeExpired(ctx context.Context, before time.Time) (int64, error)
}
