package services

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// ValidationSvc runs the full validation pass over a prospective or persisted
// set of journal lines. Every check runs; problems accumulate in the result
// instead of aborting at the first one. Only a repository failure surfaces as
// an error.
type ValidationSvc interface {
	// ValidateEntry checks line shape, balance, account existence and
	// activity, unusually large amounts, and the compliance date window.
	ValidateEntry(ctx context.Context, tenantID string, lines []domain.JournalLine, entryDate time.Time) (domain.ValidationResult, error)
}
