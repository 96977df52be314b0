package dto

import (
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// The accountcode rule rejects codes whose leading digit maps to no account type.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,accountcode"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CompanyID   *string            `json:"companyID"`   // Optional: tenant-wide account when omitted
	Description string             `json:"description"` // Optional
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	CompanyID     *string            `json:"companyID,omitempty"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`        // Optional: New name
	Description *string `json:"description"` // Optional: New description
	IsActive    *bool   `json:"isActive"`    // Optional: New active status
}

// ResolveAccountRequest defines the data needed to resolve a free-form
// account reference.
type ResolveAccountRequest struct {
	Reference string  `json:"reference" binding:"required"`
	CompanyID *string `json:"companyID"`
}

// ResolveAccountResponse reports which account a reference resolved to and how.
type ResolveAccountResponse struct {
	Account AccountResponse `json:"account"`
	Tier    string          `json:"tier"`
	Warning string          `json:"warning,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		CompanyID:     acc.CompanyID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// ToResolveAccountResponse converts a domain.Resolution to its DTO.
func ToResolveAccountResponse(res *domain.Resolution) ResolveAccountResponse {
	return ResolveAccountResponse{
		Account: ToAccountResponse(&res.Account),
		Tier:    string(res.Tier),
		Warning: res.Warning,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	CompanyID *string `form:"companyID"`
	Limit     int     `form:"limit,default=20"`
	Offset    int     `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
