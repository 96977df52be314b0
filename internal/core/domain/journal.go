package domain

import "time"

// EntryStatus indicates the lifecycle state of a journal entry.
// Transitions are Draft -> Posted -> Voided; Voided is terminal and a Draft
// may be voided directly. Every other transition is rejected.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// CanTransitionTo reports whether s may move to next.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Posted || next == Voided
	case Posted:
		return next == Voided
	default:
		return false
	}
}

// JournalEntry represents a single financial event composed of multiple lines.
// Only Posted entries affect ledger balances; lines are immutable once the
// entry is persisted, voiding appends a reversal entry instead of editing.
type JournalEntry struct {
	EntryID          string        `json:"entryID"`                    // Primary Key (UUID)
	TenantID         string        `json:"tenantID"`                   // Owning tenant (Not Null)
	CompanyID        *string       `json:"companyID,omitempty"`        // Nullable company scope
	EntryDate        time.Time     `json:"entryDate"`                  // Date the event occurred
	Reference        string        `json:"reference"`                  // Nullable external reference (invoice no, bank txn id)
	Memo             string        `json:"memo"`                       // Nullable free text
	Status           EntryStatus   `json:"status"`                     // Default: Draft
	Source           EntrySource   `json:"source"`                     // Provenance, tagged by kind
	Lines            []JournalLine `json:"lines,omitempty"`            // At least two when validated
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on reversal entries
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on voided originals
	AuditFields
}

// TotalDebit sums the debit side of all lines.
func (e JournalEntry) TotalDebit() Money {
	total := ZeroMoney()
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e JournalEntry) TotalCredit() Money {
	total := ZeroMoney()
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether total debits exactly equal total credits.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}
