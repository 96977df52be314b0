package dto

import (
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// CreateServiceTokenRequest represents the request body for creating a new service token
type CreateServiceTokenRequest struct {
	Name      string `json:"name" binding:"required,min=3,max=100"`
	ExpiresIn *int64 `json:"expiresIn,omitempty"` // Duration in seconds
}

// ServiceTokenResponse represents a service token in the API responses
type ServiceTokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateServiceTokenResponse represents the response when creating a new service token
type CreateServiceTokenResponse struct {
	TokenString string               `json:"token"` // Only shown once when created
	Details     ServiceTokenResponse `json:"details"`
}

// ListServiceTokensResponse represents a list of service tokens
type ListServiceTokensResponse []ServiceTokenResponse

// ToServiceTokenResponse converts a domain.ServiceToken to a ServiceTokenResponse
func ToServiceTokenResponse(token domain.ServiceToken) ServiceTokenResponse {
	return ServiceTokenResponse{
		ID:         token.TokenID,
		Name:       token.Name,
		LastUsedAt: token.LastUsedAt,
		ExpiresAt:  token.ExpiresAt,
		CreatedAt:  token.CreatedAt,
	}
}

// ToServiceTokenResponseList converts a slice of domain.ServiceToken to ListServiceTokensResponse
func ToServiceTokenResponseList(tokens []domain.ServiceToken) ListServiceTokensResponse {
	result := make(ListServiceTokensResponse, len(tokens))
	for i, token := range tokens {
		result[i] = ToServiceTokenResponse(token)
	}
	return result
}

// ToCreateServiceTokenResponse converts a token string and domain.ServiceToken to CreateServiceTokenResponse
func ToCreateServiceTokenResponse(tokenStr string, token domain.ServiceToken) CreateServiceTokenResponse {
	return CreateServiceTokenResponse{
		TokenString: tokenStr,
		Details:     ToServiceTokenResponse(token),
	}
}
