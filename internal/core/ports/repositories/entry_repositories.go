package repositories

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier,
	// without lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries for a tenant (and
	// optional company) using token-based pagination. It returns the entries
	// without lines, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID string, companyID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListPostedEntries retrieves every Posted entry for a tenant (and optional
	// company) whose entry date falls in [from, to], with lines attached.
	// Draft and Voided entries are never included.
	ListPostedEntries(ctx context.Context, tenantID string, companyID *string, from, to time.Time) ([]domain.JournalEntry, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists an entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus moves an entry from the expected status to the next one.
	// It is a compare-and-set: the returned bool is false when the entry was
	// not in the expected status, which means a concurrent caller won the race.
	UpdateEntryStatus(ctx context.Context, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error)

	// SaveEntryInTx is SaveEntry running inside the caller's transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatusInTx is UpdateEntryStatus running inside the caller's transaction.
	UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error)

	// SetEntryVoidLinksInTx records the reversal linkage and replacement memo on
	// a voided entry, inside the caller's transaction.
	SetEntryVoidLinksInTx(ctx context.Context, tx pgx.Tx, entryID string, reversingEntryID string, memo string, updatedBy string, now time.Time) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
// This is a facade for clients that need access to all operations
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
