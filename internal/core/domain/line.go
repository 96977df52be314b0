package domain

import "fmt"

// JournalLine represents a single two-column line within a journal entry,
// affecting one account. Exactly one of Debit or Credit must be non-zero and
// both must be non-negative; sums are kept balanced at the entry level.
type JournalLine struct {
	LineID      string            `json:"lineID"`             // Primary Key (UUID)
	EntryID     string            `json:"entryID"`            // FK -> JournalEntry.entryID (Not Null)
	AccountID   string            `json:"accountID"`          // FK -> Account.accountID (Not Null)
	Debit       Money             `json:"debit"`              // Zero when the line is a credit
	Credit      Money             `json:"credit"`             // Zero when the line is a debit
	Description string            `json:"description"`        // Nullable
	Metadata    map[string]string `json:"metadata,omitempty"` // Category, vendor, project tags
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return !l.Debit.IsZero()
}

// IsCredit reports whether the line carries its amount on the credit side.
func (l JournalLine) IsCredit() bool {
	return !l.Credit.IsZero()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() Money {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// CheckSides enforces the line shape: no negative amounts and exactly one
// non-zero side.
func (l JournalLine) CheckSides() error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("line amounts must not be negative (debit=%s credit=%s)", l.Debit, l.Credit)
	}
	debitSet := !l.Debit.IsZero()
	creditSet := !l.Credit.IsZero()
	if debitSet && creditSet {
		return fmt.Errorf("line must not carry both debit (%s) and credit (%s)", l.Debit, l.Credit)
	}
	if !debitSet && !creditSet {
		return fmt.Errorf("line must carry a debit or a credit amount")
	}
	return nil
}

// Reversed returns a copy of the line with debit and credit swapped.
// Identifiers and audit fields are cleared; the caller assigns new ones.
func (l JournalLine) Reversed() JournalLine {
	return JournalLine{
		AccountID:   l.AccountID,
		Debit:       l.Credit,
		Credit:      l.Debit,
		Description: l.Description,
		Metadata:    l.Metadata,
	}
}
