package models

import "time"

// EntryStatus indicates the lifecycle state of a journal entry row.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// JournalEntry represents a journal entry row. Lines live in their own table.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	TenantID         string      `db:"tenant_id"`
	CompanyID        *string     `db:"company_id"` // Nullable company scope
	EntryDate        time.Time   `db:"entry_date"`
	Reference        string      `db:"reference"`
	Memo             string      `db:"memo"`
	Status           EntryStatus `db:"status"`
	Source           []byte      `db:"source"`             // JSONB source envelope
	OriginalEntryID  *string     `db:"original_entry_id"`  // Set on reversal entries
	ReversingEntryID *string     `db:"reversing_entry_id"` // Set on voided originals
	AuditFields
}
