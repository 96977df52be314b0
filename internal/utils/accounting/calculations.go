package accounting

import (
	"fmt"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// SumDebits returns the total of the debit side across all lines.
func SumDebits(lines []domain.JournalLine) domain.Money {
	total := domain.ZeroMoney()
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// SumCredits returns the total of the credit side across all lines.
func SumCredits(lines []domain.JournalLine) domain.Money {
	total := domain.ZeroMoney()
	for _, line := range lines {
		total = total.Add(line.Credit)
	}
	return total
}

// BalanceDifference returns total debits minus total credits. A balanced set
// of lines yields zero.
func BalanceDifference(lines []domain.JournalLine) domain.Money {
	return SumDebits(lines).Sub(SumCredits(lines))
}

// EnsureDoubleEntry adjusts at most one line in place so that debits equal
// credits. When debits exceed credits, the line carrying the largest credit
// is raised by the difference; when credits exceed debits, the line carrying
// the largest debit is raised. Ties pick the earliest line. It returns the
// index of the adjusted line, or -1 when the lines already balance.
//
// The adjustment is applied only while an entry is being constructed; a
// persisted entry is re-validated, never corrected.
func EnsureDoubleEntry(lines []domain.JournalLine) (int, error) {
	if len(lines) == 0 {
		return -1, fmt.Errorf("cannot balance an empty set of lines")
	}

	difference := BalanceDifference(lines)
	if difference.IsZero() {
		return -1, nil
	}

	if difference.IsPositive() {
		// Credit side is short: raise the largest credit.
		idx := -1
		for i, line := range lines {
			if line.Credit.IsZero() {
				continue
			}
			if idx == -1 || line.Credit.GreaterThan(lines[idx].Credit) {
				idx = i
			}
		}
		if idx == -1 {
			return -1, fmt.Errorf("no credit line available to absorb difference of %s", difference)
		}
		lines[idx].Credit = lines[idx].Credit.Add(difference)
		return idx, nil
	}

	// Debit side is short: raise the largest debit.
	shortfall := difference.Abs()
	idx := -1
	for i, line := range lines {
		if line.Debit.IsZero() {
			continue
		}
		if idx == -1 || line.Debit.GreaterThan(lines[idx].Debit) {
			idx = i
		}
	}
	if idx == -1 {
		return -1, fmt.Errorf("no debit line available to absorb difference of %s", shortfall)
	}
	lines[idx].Debit = lines[idx].Debit.Add(shortfall)
	return idx, nil
}
