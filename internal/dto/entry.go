package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// EntrySourceRequest identifies where a proposed entry came from. Kind selects
// which of the optional fields apply; the void kind is engine-generated and
// cannot be submitted.
type EntrySourceRequest struct {
	Kind          string  `json:"kind" binding:"required,oneof=manual ai_generated bank_reconciliation"`
	EnteredBy     string  `json:"enteredBy,omitempty"`     // manual
	Model         string  `json:"model,omitempty"`         // ai_generated
	Confidence    float64 `json:"confidence,omitempty"`    // ai_generated
	BankReference string  `json:"bankReference,omitempty"` // bank_reconciliation
	StatementID   string  `json:"statementID,omitempty"`   // bank_reconciliation
}

// ToDomainSource converts the request into the concrete source kind.
func (r EntrySourceRequest) ToDomainSource() (domain.EntrySource, error) {
	switch domain.SourceKind(r.Kind) {
	case domain.SourceManual:
		return domain.ManualSource{EnteredBy: r.EnteredBy}, nil
	case domain.SourceAIGenerated:
		return domain.AIGeneratedSource{Model: r.Model, Confidence: r.Confidence}, nil
	case domain.SourceBankReconciliation:
		return domain.BankReconciliationSource{BankReference: r.BankReference, StatementID: r.StatementID}, nil
	default:
		return nil, fmt.Errorf("unsupported entry source kind %q", r.Kind)
	}
}

// CreateEntryLineRequest defines one proposed line. Either AccountID or
// AccountRef must be set; a bare reference is resolved to an account before
// validation runs.
type CreateEntryLineRequest struct {
	AccountID   string            `json:"accountID"`
	AccountRef  string            `json:"accountRef"`
	Debit       decimal.Decimal   `json:"debit"`
	Credit      decimal.Decimal   `json:"credit"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreateEntryRequest defines the data needed to create a new journal entry.
type CreateEntryRequest struct {
	CompanyID *string                  `json:"companyID"`
	EntryDate time.Time                `json:"entryDate" binding:"required"`
	Reference string                   `json:"reference"`
	Memo      string                   `json:"memo"`
	Source    EntrySourceRequest       `json:"source" binding:"required"`
	Lines     []CreateEntryLineRequest `json:"lines" binding:"required,dive"`
}

// VoidEntryRequest defines the data needed to void an entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID      string            `json:"lineID"`
	AccountID   string            `json:"accountID"`
	Debit       decimal.Decimal   `json:"debit"`
	Credit      decimal.Decimal   `json:"credit"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string              `json:"entryID"`
	CompanyID        *string             `json:"companyID,omitempty"`
	EntryDate        time.Time           `json:"entryDate"`
	Reference        string              `json:"reference,omitempty"`
	Memo             string              `json:"memo,omitempty"`
	Status           string              `json:"status"`
	SourceKind       string              `json:"sourceKind"`
	Lines            []EntryLineResponse `json:"lines"`
	OriginalEntryID  *string             `json:"originalEntryID,omitempty"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
}

// ValidationResultResponse mirrors domain.ValidationResult for API callers.
type ValidationResultResponse struct {
	IsValid          bool     `json:"isValid"`
	IsBalanced       bool     `json:"isBalanced"`
	Errors           []string `json:"errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	ComplianceIssues []string `json:"complianceIssues,omitempty"`
}

// CreateEntryResponse pairs the created entry with the validation outcome so
// callers see warnings even on success.
type CreateEntryResponse struct {
	Entry      EntryResponse            `json:"entry"`
	Validation ValidationResultResponse `json:"validation"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	CompanyID *string `form:"companyID"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries with the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalLine to EntryLineResponse DTO.
func ToEntryLineResponse(line *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      line.LineID,
		AccountID:   line.AccountID,
		Debit:       line.Debit.Decimal(),
		Credit:      line.Credit.Decimal(),
		Description: line.Description,
		Metadata:    line.Metadata,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = ToEntryLineResponse(&line)
	}
	sourceKind := ""
	if entry.Source != nil {
		sourceKind = string(entry.Source.Kind())
	}
	return EntryResponse{
		EntryID:          entry.EntryID,
		CompanyID:        entry.CompanyID,
		EntryDate:        entry.EntryDate,
		Reference:        entry.Reference,
		Memo:             entry.Memo,
		Status:           string(entry.Status),
		SourceKind:       sourceKind,
		Lines:            lines,
		OriginalEntryID:  entry.OriginalEntryID,
		ReversingEntryID: entry.ReversingEntryID,
		CreatedAt:        entry.CreatedAt,
		CreatedBy:        entry.CreatedBy,
	}
}

// ToValidationResultResponse converts a domain.ValidationResult to its DTO.
func ToValidationResultResponse(r domain.ValidationResult) ValidationResultResponse {
	return ValidationResultResponse{
		IsValid:          r.IsValid,
		IsBalanced:       r.IsBalanced,
		Errors:           r.Errors,
		Warnings:         r.Warnings,
		ComplianceIssues: r.ComplianceIssues,
	}
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToEntryResponse(&entry)
	}
	return responses
}
