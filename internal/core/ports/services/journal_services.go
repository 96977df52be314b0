package services

import (
	"context"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/ledgerforge/ledger_engine/internal/dto"
)

// EntryReaderSvc defines read operations for journal entry data
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry by its ID, lines included.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries in a tenant.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines lifecycle operations for journal entry data
type EntryWriterSvc interface {
	// CreateEntry validates, auto-balances, resolves account references and
	// persists a new Draft entry. The returned validation result carries any
	// warnings and compliance issues even when creation succeeds.
	CreateEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorID string) (*domain.JournalEntry, domain.ValidationResult, error)

	// PostEntry re-validates a Draft entry and moves it to Posted. Posting a
	// non-Draft entry fails with a lifecycle error.
	PostEntry(ctx context.Context, tenantID string, entryID string, callerID string) (*domain.JournalEntry, error)

	// VoidEntry voids an entry by generating a posted reversal entry with
	// debits and credits swapped, then marking the original Voided. The
	// original's lines are never touched. Returns the reversal entry.
	VoidEntry(ctx context.Context, tenantID string, entryID string, req dto.VoidEntryRequest, callerID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all entry-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
