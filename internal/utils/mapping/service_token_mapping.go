package mapping

import (
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/ledgerforge/ledger_engine/internal/models"
)

// ToModelServiceToken converts a domain ServiceToken to a model ServiceToken
func ToModelServiceToken(d domain.ServiceToken) models.ServiceToken {
	return models.ServiceToken{
		TokenID:    d.TokenID,
		TenantID:   d.TenantID,
		Name:       d.Name,
		TokenHash:  d.TokenHash,
		CreatedBy:  d.CreatedBy,
		LastUsedAt: d.LastUsedAt,
		ExpiresAt:  d.ExpiresAt,
		RevokedAt:  d.RevokedAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ToDomainServiceToken converts a model ServiceToken to a domain ServiceToken
func ToDomainServiceToken(m models.ServiceToken) domain.ServiceToken {
	return domain.ServiceToken{
		TokenID:    m.TokenID,
		TenantID:   m.TenantID,
		Name:       m.Name,
		TokenHash:  m.TokenHash,
		CreatedBy:  m.CreatedBy,
		LastUsedAt: m.LastUsedAt,
		ExpiresAt:  m.ExpiresAt,
		RevokedAt:  m.RevokedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToDomainServiceTokenSlice converts a slice of model ServiceTokens to a slice of domain ServiceTokens
func ToDomainServiceTokenSlice(ms []models.ServiceToken) []domain.ServiceToken {
	ds := make([]domain.ServiceToken, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainServiceToken(m)
	}
	return ds
}
