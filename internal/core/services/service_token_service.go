package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/utils"
)

const (
	// serviceTokenPrefix marks tokens issued by this engine. The token id is
	// embedded in the plaintext so validation can look up the stored hash
	// directly instead of comparing against every token.
	serviceTokenPrefix = "lfk_"

	// tokenSecretBytes keeps the plaintext secret under bcrypt's 72 byte input limit.
	tokenSecretBytes = 24
)

// serviceTokenService implements the ServiceTokenSvc interface
type serviceTokenService struct {
	BaseService
	tokenRepo portsrepo.ServiceTokenRepository
}

// NewServiceTokenService creates a new instance of serviceTokenService
func NewServiceTokenService(tokenRepo portsrepo.ServiceTokenRepository) portssvc.ServiceTokenSvc {
	return &serviceTokenService{
		tokenRepo: tokenRepo,
	}
}

// Ensure serviceTokenService implements the portssvc.ServiceTokenSvc interface
var _ portssvc.ServiceTokenSvc = (*serviceTokenService)(nil)

// CreateToken generates a new service token for the tenant. The plaintext is
// returned exactly once; only a bcrypt hash of the secret part is stored.
func (s *serviceTokenService) CreateToken(ctx context.Context, tenantID, creatorID, name string, expiresIn *time.Duration) (string, *domain.ServiceToken, error) {
	if tenantID == "" {
		return "", nil, errors.New("tenant ID is required")
	}
	if name == "" {
		return "", nil, errors.New("token name is required")
	}

	tokenID := uuid.NewString()
	secret, err := utils.GenerateSecureRandomString(tokenSecretBytes)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	plaintext := fmt.Sprintf("%s%s_%s", serviceTokenPrefix, tokenID, secret)

	tokenHash, err := utils.HashServiceToken(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		expiry := time.Now().UTC().Add(*expiresIn)
		expiresAt = &expiry
	}

	now := time.Now().UTC()
	token := &domain.ServiceToken{
		TokenID:   tokenID,
		TenantID:  tenantID,
		Name:      name,
		TokenHash: tokenHash,
		CreatedBy: creatorID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.LogError(ctx, err, "Failed to save service token", slog.String("tenant_id", tenantID))
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.LogInfo(ctx, "Service token created",
		slog.String("token_id", tokenID),
		slog.String("tenant_id", tenantID),
		slog.String("name", name))

	// The plaintext token is only available here.
	return plaintext, token, nil
}

// ListTokens returns all non-revoked service tokens for a tenant.
func (s *serviceTokenService) ListTokens(ctx context.Context, tenantID string) ([]domain.ServiceToken, error) {
	if tenantID == "" {
		return nil, errors.New("tenant ID is required")
	}

	tokens, err := s.tokenRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	return tokens, nil
}

// RevokeToken revokes a specific token belonging to the tenant. Tokens of
// other tenants are reported as not found.
func (s *serviceTokenService) RevokeToken(ctx context.Context, tenantID, tokenID string) error {
	if tenantID == "" || tokenID == "" {
		return errors.New("tenant ID and token ID are required")
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("failed to find token: %w", err)
	}

	if token.TenantID != tenantID {
		s.LogWarn(ctx, "Token revoke attempted across tenants",
			slog.String("token_id", tokenID),
			slog.String("requested_tenant", tenantID))
		return apperrors.ErrNotFound // Obscure existence
	}

	if token.IsRevoked() {
		return nil
	}

	if err := s.tokenRepo.Revoke(ctx, tokenID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.LogInfo(ctx, "Service token revoked",
		slog.String("token_id", tokenID),
		slog.String("tenant_id", tenantID))
	return nil
}

// ValidateToken checks a presented plaintext token and returns its record
// when the token is known, unexpired and not revoked.
func (s *serviceTokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.ServiceToken, error) {
	tokenID, secret, err := splitServiceToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown token", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	if token.IsRevoked() {
		return nil, fmt.Errorf("%w: token revoked", apperrors.ErrUnauthorized)
	}
	if token.IsExpired() {
		return nil, fmt.Errorf("%w: token expired", apperrors.ErrUnauthorized)
	}

	if !utils.CheckServiceTokenHash(secret, token.TokenHash) {
		s.LogWarn(ctx, "Service token secret mismatch", slog.String("token_id", tokenID))
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}

	// Best effort; a failed usage stamp must not reject a valid token.
	token.UpdateLastUsed()
	if err := s.tokenRepo.MarkUsed(ctx, token.TokenID, *token.LastUsedAt); err != nil {
		s.LogWarn(ctx, "Failed to stamp token usage",
			slog.String("token_id", tokenID),
			slog.String("error", err.Error()))
	}

	return token, nil
}

// splitServiceToken parses "lfk_<tokenID>_<secret>" into its parts.
func splitServiceToken(tokenString string) (tokenID, secret string, err error) {
	if tokenString == "" {
		return "", "", errors.New("token is required")
	}
	rest, ok := strings.CutPrefix(tokenString, serviceTokenPrefix)
	if !ok {
		return "", "", errors.New("malformed token")
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New("malformed token")
	}
	return parts[0], parts[1], nil
}
