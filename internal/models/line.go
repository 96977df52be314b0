package models

import "github.com/shopspring/decimal"

// JournalLine represents a single two-column line row within a journal entry.
// Exactly one of debit or credit is non-zero; both columns are NOT NULL.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	Metadata    []byte          `db:"metadata"` // JSONB string map, nullable
	AuditFields
}
