package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
)

// validationService runs every check over a set of journal lines and
// accumulates the outcome. Nothing here mutates the lines; the auto-balance
// correction lives with entry construction.
type validationService struct {
	BaseService
	accountRepo          portsrepo.AccountReader
	largeAmountThreshold domain.Money
	complianceCutoff     *time.Time
}

// ValidationOption is a functional option for configuring the validation service
type ValidationOption func(*validationService)

// WithLargeAmountThreshold sets the amount above which a single line draws a
// large-amount warning. A zero threshold disables the check.
func WithLargeAmountThreshold(threshold domain.Money) ValidationOption {
	return func(s *validationService) {
		s.largeAmountThreshold = threshold
	}
}

// WithComplianceCutoff sets the date before which entry dates draw a
// compliance issue.
func WithComplianceCutoff(cutoff time.Time) ValidationOption {
	return func(s *validationService) {
		s.complianceCutoff = &cutoff
	}
}

// NewValidationService creates a new validation service with the provided options
func NewValidationService(accountRepo portsrepo.AccountReader, options ...ValidationOption) portssvc.ValidationSvc {
	svc := &validationService{
		accountRepo: accountRepo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure validationService implements the ValidationSvc interface
var _ portssvc.ValidationSvc = (*validationService)(nil)

// ValidateEntry runs the full check sequence. Only the empty-line check
// short-circuits; every other problem accumulates so the caller sees the
// complete picture in one pass. An error is returned solely for repository
// failures, never for invalid lines.
func (s *validationService) ValidateEntry(ctx context.Context, tenantID string, lines []domain.JournalLine, entryDate time.Time) (domain.ValidationResult, error) {
	result := domain.NewValidationResult()

	if len(lines) == 0 {
		result.AddError("entry has no lines")
		return result, nil
	}

	// Per-line shape: non-negative amounts, exactly one side set.
	for i, line := range lines {
		if err := line.CheckSides(); err != nil {
			result.AddError(fmt.Sprintf("line %d: %v", i+1, err))
		}
		if line.AccountID == "" {
			result.AddError(fmt.Sprintf("line %d: account is required", i+1))
		}
	}

	// Balance: exact equality at the money scale, no epsilon.
	totalDebit := domain.ZeroMoney()
	totalCredit := domain.ZeroMoney()
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		result.MarkUnbalanced(fmt.Sprintf("entry is unbalanced: debits total %s, credits total %s", totalDebit, totalCredit))
	}

	// Account existence and activity.
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.AccountID == "" {
			continue
		}
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}
	if len(accountIDs) > 0 {
		accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch accounts during validation",
				slog.String("tenant_id", tenantID))
			return result, fmt.Errorf("failed to fetch accounts for validation: %w", err)
		}
		for _, id := range accountIDs {
			account, found := accounts[id]
			if !found || account.TenantID != tenantID {
				// Accounts in other tenants read as missing.
				result.AddError(fmt.Sprintf("account %s not found", id))
				continue
			}
			if !account.IsActive {
				result.AddWarning(fmt.Sprintf("account %s (%s) is inactive", account.Code, account.Name))
			}
		}
	}

	// Magnitude: a single large line is suspicious, not invalid. Many small
	// lines summing past the threshold are fine; the detector applies its own
	// total-based rule over posted history.
	if s.largeAmountThreshold.IsPositive() {
		for i, line := range lines {
			amount := line.Debit
			if line.Credit.GreaterThan(amount) {
				amount = line.Credit
			}
			if amount.GreaterThan(s.largeAmountThreshold) {
				result.AddWarning(fmt.Sprintf("line %d: amount %s exceeds the large amount threshold %s", i+1, amount, s.largeAmountThreshold))
			}
		}
	}

	// Date window compliance.
	if s.complianceCutoff != nil && entryDate.Before(*s.complianceCutoff) {
		result.AddComplianceIssue(fmt.Sprintf("entry date %s is before the compliance cutoff %s",
			entryDate.Format("2006-01-02"), s.complianceCutoff.Format("2006-01-02")))
	}

	return result, nil
}
