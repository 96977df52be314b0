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
	"github.com/ledgerforge/ledger_engine/internal/dto"
	"github.com/ledgerforge/ledger_engine/internal/middleware"
	"github.com/ledgerforge/ledger_engine/internal/utils/accounting"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// journalService owns the entry lifecycle: creation with validation and
// auto-balancing, posting, and voiding via reversal entries.
type journalService struct {
	entryRepo portsrepo.EntryRepositoryWithTx
	resolver  portssvc.ResolverSvc
	validator portssvc.ValidationSvc
	inventory portssvc.InventorySyncer
}

// JournalOption is a functional option for configuring the journal service
type JournalOption func(*journalService)

// WithInventorySyncer adds the optional inventory side-effect dependency.
func WithInventorySyncer(syncer portssvc.InventorySyncer) JournalOption {
	return func(s *journalService) {
		s.inventory = syncer
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(entryRepo portsrepo.EntryRepositoryWithTx, resolver portssvc.ResolverSvc, validator portssvc.ValidationSvc, options ...JournalOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		entryRepo: entryRepo,
		resolver:  resolver,
		validator: validator,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates, auto-balances and persists a new Draft entry.
// Account references on lines are resolved to ids first, so validation always
// runs against concrete accounts. The validation result is returned even on
// success because resolution and auto-balancing may leave warnings behind.
func (s *journalService) CreateEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorID string) (*domain.JournalEntry, domain.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := domain.NewValidationResult()

	if len(req.Lines) == 0 {
		result.AddError("entry has no lines")
		return nil, result, apperrors.NewValidationError(result)
	}

	source, err := req.Source.ToDomainSource()
	if err != nil {
		result.AddError(err.Error())
		return nil, result, apperrors.NewValidationError(result)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	// Resolve references and build domain lines.
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		accountID := lineReq.AccountID
		if accountID == "" && lineReq.AccountRef != "" {
			resolution, err := s.resolver.ResolveAccount(ctx, tenantID, req.CompanyID, lineReq.AccountRef, creatorID)
			if err != nil {
				logger.Warn("Account resolution failed during entry creation",
					slog.String("reference", lineReq.AccountRef),
					slog.String("tenant_id", tenantID),
					slog.String("error", err.Error()))
				return nil, result, err
			}
			accountID = resolution.Account.AccountID
			if resolution.Warning != "" {
				result.AddWarning(resolution.Warning)
			}
		}
		if accountID == "" {
			result.AddError(fmt.Sprintf("line %d: an account id or reference is required", i+1))
		}

		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   accountID,
			Debit:       domain.MoneyFromDecimal(lineReq.Debit),
			Credit:      domain.MoneyFromDecimal(lineReq.Credit),
			Description: lineReq.Description,
			Metadata:    lineReq.Metadata,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
	}

	// Auto-balance before validation, but only when every line has a sound
	// shape; a line carrying both sides would poison the correction math.
	if linesWellFormed(lines) && !accounting.BalanceDifference(lines).IsZero() {
		idx, err := accounting.EnsureDoubleEntry(lines)
		if err != nil {
			// Leave the imbalance for validation to report.
			logger.Debug("Auto-balance could not correct entry", slog.String("error", err.Error()))
		} else if idx >= 0 {
			result.AddWarning(fmt.Sprintf("line %d was adjusted to balance the entry (debit %s, credit %s)",
				idx+1, lines[idx].Debit, lines[idx].Credit))
		}
	}

	// Full validation against the resolved, balanced lines.
	checked, err := s.validator.ValidateEntry(ctx, tenantID, lines, req.EntryDate)
	if err != nil {
		return nil, result, err
	}
	mergeResults(&result, checked)
	if !result.IsValid {
		return nil, result, apperrors.NewValidationError(result)
	}

	entry := domain.JournalEntry{
		EntryID:   entryID,
		TenantID:  tenantID,
		CompanyID: req.CompanyID,
		EntryDate: req.EntryDate,
		Reference: req.Reference,
		Memo:      req.Memo,
		Status:    domain.Draft,
		Source:    source,
		Lines:     lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, result, fmt.Errorf("failed to save entry: %w", err)
	}

	logger.Info("Entry created successfully",
		slog.String("entry_id", entry.EntryID),
		slog.String("tenant_id", tenantID),
		slog.Int("line_count", len(lines)))

	// Side-effect boundary: inventory bookkeeping must never fail the entry.
	if s.inventory != nil && isPurchaseLike(entry) {
		if err := s.inventory.SyncPurchase(ctx, entry); err != nil {
			logger.Warn("Inventory purchase sync failed, continuing",
				slog.String("entry_id", entry.EntryID),
				slog.String("error", err.Error()))
		}
	}

	return &entry, result, nil
}

// PostEntry re-validates a Draft entry against its persisted lines and moves
// it to Posted. The status change is a compare-and-set so two concurrent
// posts cannot both win.
func (s *journalService) PostEntry(ctx context.Context, tenantID string, entryID string, callerID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.getOwnedEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status != domain.Draft {
		logger.Warn("Attempted to post non-draft entry",
			slog.String("entry_id", entryID),
			slog.String("status", string(entry.Status)))
		return nil, apperrors.NewLifecycleError("post", entryID, entry.Status, apperrors.ErrInvalidStateTransition)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}

	// Defense against state drift: the persisted lines must still validate.
	checked, err := s.validator.ValidateEntry(ctx, tenantID, lines, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	if !checked.IsValid {
		logger.Warn("Persisted entry failed re-validation at posting",
			slog.String("entry_id", entryID),
			slog.Any("errors", checked.Errors))
		return nil, apperrors.NewValidationError(checked)
	}

	now := time.Now().UTC()
	ok, err := s.entryRepo.UpdateEntryStatus(ctx, entryID, domain.Draft, domain.Posted, callerID, now)
	if err != nil {
		logger.Error("Failed to update entry status", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if !ok {
		// Lost the race: someone else moved the entry first.
		status := entry.Status
		if fresh, ferr := s.entryRepo.FindEntryByID(ctx, entryID); ferr == nil {
			status = fresh.Status
		}
		logger.Warn("Entry status changed concurrently during post",
			slog.String("entry_id", entryID),
			slog.String("status", string(status)))
		return nil, apperrors.NewLifecycleError("post", entryID, status, apperrors.ErrInvalidStateTransition)
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = callerID
	entry.Lines = lines

	logger.Info("Entry posted successfully", slog.String("entry_id", entryID), slog.String("tenant_id", tenantID))

	// Side-effect boundary: category bookkeeping must never fail the post.
	if s.inventory != nil {
		if err := s.inventory.SyncCategoryScan(ctx, *entry); err != nil {
			logger.Warn("Inventory category scan failed, continuing",
				slog.String("entry_id", entryID),
				slog.String("error", err.Error()))
		}
	}

	return entry, nil
}

// VoidEntry voids an entry by writing a reversal entry with debits and
// credits swapped and marking the original Voided, atomically. The reversal
// mirrors the original's status: voiding a Posted entry posts the reversal so
// the void takes effect immediately, while voiding a Draft leaves the
// reversal in Draft since the original never reached the ledger. The
// original's lines are never touched.
func (s *journalService) VoidEntry(ctx context.Context, tenantID string, entryID string, req dto.VoidEntryRequest, callerID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.getOwnedEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	if original.Status == domain.Voided {
		logger.Warn("Attempted to void an already voided entry", slog.String("entry_id", entryID))
		return nil, apperrors.NewLifecycleError("void", entryID, original.Status, apperrors.ErrAlreadyVoided)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for voiding", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		reversed := line.Reversed()
		reversed.LineID = uuid.NewString()
		reversed.EntryID = reversalID
		reversed.Description = reversalDescription(line.Description)
		reversed.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		}
		reversalLines[i] = reversed
	}

	// A persisted entry was balanced going in, so its mirror must be too;
	// validate anyway before anything is written.
	checked, err := s.validator.ValidateEntry(ctx, tenantID, reversalLines, original.EntryDate)
	if err != nil {
		return nil, err
	}
	if !checked.IsValid {
		logger.Error("Reversal lines failed validation",
			slog.String("entry_id", entryID),
			slog.Any("errors", checked.Errors))
		return nil, apperrors.NewValidationError(checked)
	}

	// Only Draft and Posted originals reach this point. A Draft never
	// contributed to balances, so its reversal must not either.
	reversalStatus := domain.Posted
	if original.Status == domain.Draft {
		reversalStatus = domain.Draft
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		TenantID:        tenantID,
		CompanyID:       original.CompanyID,
		EntryDate:       original.EntryDate,
		Reference:       original.Reference,
		Memo:            reversalDescription(original.Memo),
		Status:          reversalStatus,
		Source:          domain.VoidSource{OriginalEntryID: original.EntryID, Reason: req.Reason},
		Lines:           reversalLines,
		OriginalEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}

	newMemo := appendVoidReason(original.Memo, req.Reason)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin void transaction", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to begin void transaction: %w", err)
	}
	defer func() {
		_ = s.entryRepo.Rollback(ctx, tx)
	}()

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, reversal, reversalLines); err != nil {
		logger.Error("Failed to save reversal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	ok, err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, original.EntryID, original.Status, domain.Voided, callerID, now)
	if err != nil {
		logger.Error("Failed to void original entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void entry %s: %w", entryID, err)
	}
	if !ok {
		// The status moved under us (e.g. a concurrent Post). The entry may
		// still be voidable, so report a retryable conflict rather than a
		// terminal state.
		logger.Warn("Entry status changed concurrently during void", slog.String("entry_id", entryID))
		return nil, apperrors.NewLifecycleError("void", entryID, original.Status, apperrors.ErrConflict)
	}

	if err := s.entryRepo.SetEntryVoidLinksInTx(ctx, tx, original.EntryID, reversalID, newMemo, callerID, now); err != nil {
		logger.Error("Failed to link reversal to original", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to link reversal for entry %s: %w", entryID, err)
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit void transaction", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to commit void for entry %s: %w", entryID, err)
	}

	logger.Info("Entry voided successfully",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversalID),
		slog.String("tenant_id", tenantID))

	return &reversal, nil
}

// GetEntryByID retrieves a specific entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.getOwnedEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	logger.Debug("Entry retrieved successfully",
		slog.String("entry_id", entryID),
		slog.Int("line_count", len(lines)))
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for a tenant.
func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, tenantID, params.CompanyID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}

	logger.Debug("Entries listed successfully", slog.Int("count", len(entries)))
	return resp, nil
}

// getOwnedEntry fetches an entry and checks tenant ownership, reporting
// entries of other tenants as not found.
func (s *journalService) getOwnedEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	if entry.TenantID != tenantID {
		logger.Warn("Entry found but belongs to different tenant",
			slog.String("entry_id", entryID),
			slog.String("entry_tenant", entry.TenantID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	return entry, nil
}

// mergeResults folds the validator's outcome into the running result.
func mergeResults(into *domain.ValidationResult, from domain.ValidationResult) {
	into.IsValid = into.IsValid && from.IsValid
	into.IsBalanced = into.IsBalanced && from.IsBalanced
	into.Errors = append(into.Errors, from.Errors...)
	into.Warnings = append(into.Warnings, from.Warnings...)
	into.ComplianceIssues = append(into.ComplianceIssues, from.ComplianceIssues...)
}

// linesWellFormed reports whether every line passes the shape check.
func linesWellFormed(lines []domain.JournalLine) bool {
	for _, line := range lines {
		if err := line.CheckSides(); err != nil {
			return false
		}
	}
	return true
}

// isPurchaseLike applies the purchase heuristics that trigger inventory sync.
func isPurchaseLike(entry domain.JournalEntry) bool {
	if strings.Contains(strings.ToLower(entry.Memo), "purchase") {
		return true
	}
	for _, line := range entry.Lines {
		if strings.Contains(strings.ToLower(line.Description), "purchase") {
			return true
		}
	}
	return false
}

// reversalDescription prefixes a description for reversal lines and memos.
func reversalDescription(original string) string {
	if original == "" {
		return "Reversal"
	}
	return fmt.Sprintf("Reversal: %s", original)
}

// appendVoidReason extends an entry memo with the void reason.
func appendVoidReason(memo, reason string) string {
	note := fmt.Sprintf("Voided: %s", reason)
	if memo == "" {
		return note
	}
	return fmt.Sprintf("%s | %s", memo, note)
}
