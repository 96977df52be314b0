package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	"github.com/ledgerforge/ledger_engine/internal/models"
	"github.com/ledgerforge/ledger_engine/internal/utils/mapping"
	"github.com/ledgerforge/ledger_engine/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry and line data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

const (
	selectEntryFields = `
		entry_id, tenant_id, company_id, entry_date, reference, memo, status,
		source, original_entry_id, reversing_entry_id,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertEntryQuery = `
		INSERT INTO journal_entries (` + selectEntryFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	selectLineFields = `
		line_id, entry_id, account_id, debit, credit, description, metadata,
		created_at, created_by, last_updated_at, last_updated_by
	`

	insertLineQuery = `
		INSERT INTO journal_lines (` + selectLineFields + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	// Status is part of the WHERE clause so two concurrent transitions cannot
	// both succeed; the loser sees zero rows affected.
	casEntryStatusQuery = `
		UPDATE journal_entries
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;
	`

	setVoidLinksQuery = `
		UPDATE journal_entries
		SET reversing_entry_id = $2, memo = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
)

// scanEntry scans one journal entry row.
func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Reference,
		&m.Memo,
		&m.Status,
		&m.Source,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// scanLine scans one journal line row.
func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// saveEntryTx inserts the entry row and its lines inside the given transaction.
func saveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	modelEntry, err := mapping.ToModelEntry(entry)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, insertEntryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.CompanyID,
		modelEntry.EntryDate,
		modelEntry.Reference,
		modelEntry.Memo,
		modelEntry.Status,
		modelEntry.Source,
		modelEntry.OriginalEntryID,
		modelEntry.ReversingEntryID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		modelLine, err := mapping.ToModelLine(line)
		if err != nil {
			return err
		}
		batch.Queue(insertLineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.Description,
			modelLine.Metadata,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", modelEntry.EntryID, err)
	}

	return nil
}

// SaveEntry persists an entry and its lines atomically in its own transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := saveEntryTx(ctx, tx, entry, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveEntryInTx is SaveEntry running inside the caller's transaction.
func (r *PgxEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	return saveEntryTx(ctx, tx, entry, lines)
}

// UpdateEntryStatus moves an entry from the expected status to the next one.
func (r *PgxEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, casEntryStatusQuery, entryID, expected, next, now, updatedBy)
	if err != nil {
		return false, fmt.Errorf("failed to update status for entry %s: %w", entryID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// UpdateEntryStatusInTx is UpdateEntryStatus running inside the caller's transaction.
func (r *PgxEntryRepository) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error) {
	cmdTag, err := tx.Exec(ctx, casEntryStatusQuery, entryID, expected, next, now, updatedBy)
	if err != nil {
		return false, fmt.Errorf("failed to update status for entry %s: %w", entryID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// SetEntryVoidLinksInTx records the reversal linkage and replacement memo on a
// voided entry, inside the caller's transaction.
func (r *PgxEntryRepository) SetEntryVoidLinksInTx(ctx context.Context, tx pgx.Tx, entryID string, reversingEntryID string, memo string, updatedBy string, now time.Time) error {
	cmdTag, err := tx.Exec(ctx, setVoidLinksQuery, entryID, reversingEntryID, memo, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to set void links for entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindEntryByID retrieves an entry by its ID, without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	domainEntry, err := mapping.ToDomainEntry(*m)
	if err != nil {
		return nil, err
	}
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves all lines of a single entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + selectLineFields + ` FROM journal_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		line, err := mapping.ToDomainLine(*m)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}

	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry
// ID. Entries with no lines still get an empty slice.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + selectLineFields + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		line, err := mapping.ToDomainLine(*m)
		if err != nil {
			return nil, err
		}
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLine{}
		}
	}

	return linesMap, nil
}

// ListEntries retrieves a paginated list of entries for a tenant using
// token-based pagination, newest first. A nil companyID lists the whole
// tenant; a set companyID narrows to that company.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, tenantID string, companyID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row decides whether there is a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + selectEntryFields + ` FROM journal_entries WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if companyID != nil {
		args = append(args, *companyID)
		query += ` AND company_id = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		// Tuple comparison keeps the cursor stable under equal dates.
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(` AND (entry_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for tenant %s: %w", tenantID, err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for tenant %s: %w", tenantID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries, err := mapping.ToDomainEntrySlice(results)
	if err != nil {
		return nil, nil, err
	}
	return entries, nextTokenVal, nil
}

// ListPostedEntries retrieves every Posted entry in [from, to] with lines
// attached, ordered by entry date ascending for deterministic aggregation.
func (r *PgxEntryRepository) ListPostedEntries(ctx context.Context, tenantID string, companyID *string, from, to time.Time) ([]domain.JournalEntry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM journal_entries
		WHERE tenant_id = $1 AND status = $2 AND entry_date >= $3 AND entry_date <= $4`
	args := []interface{}{tenantID, models.Posted, from, to}
	if companyID != nil {
		args = append(args, *companyID)
		query += ` AND company_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY entry_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	modelEntries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posted entry row for tenant %s: %w", tenantID, err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted entry rows for tenant %s: %w", tenantID, err)
	}

	entries, err := mapping.ToDomainEntrySlice(modelEntries)
	if err != nil {
		return nil, err
	}

	entryIDs := make([]string, len(entries))
	for i, entry := range entries {
		entryIDs[i] = entry.EntryID
	}
	linesMap, err := r.FindLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesMap[entries[i].EntryID]
	}

	return entries, nil
}
