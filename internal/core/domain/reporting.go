package domain

import "time"

// LedgerBalance is one account's aggregated activity over a reporting period.
// Only Posted entries contribute. NetChange is raw debit minus credit with no
// normal-side flipping; presentation-layer sign conventions are the caller's
// concern.
type LedgerBalance struct {
	AccountID           string      `json:"accountID"`
	AccountCode         string      `json:"accountCode"`
	AccountName         string      `json:"accountName"`
	AccountType         AccountType `json:"accountType"`
	OpeningBalance      Money       `json:"openingBalance"`
	PeriodDebit         Money       `json:"periodDebit"`
	PeriodCredit        Money       `json:"periodCredit"`
	NetChange           Money       `json:"netChange"`
	ClosingBalance      Money       `json:"closingBalance"`
	LastTransactionDate *time.Time  `json:"lastTransactionDate,omitempty"`
}
