package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// LedgerBalanceResponse represents one account's activity within a period.
type LedgerBalanceResponse struct {
	AccountID           string          `json:"accountID"`
	AccountCode         string          `json:"accountCode"`
	AccountName         string          `json:"accountName"`
	AccountType         string          `json:"accountType"`
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
	PeriodDebit         decimal.Decimal `json:"periodDebit"`
	PeriodCredit        decimal.Decimal `json:"periodCredit"`
	NetChange           decimal.Decimal `json:"netChange"`
	ClosingBalance      decimal.Decimal `json:"closingBalance"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}

// LedgerBalancesResponse represents the period balance report response.
type LedgerBalancesResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Balances []LedgerBalanceResponse `json:"balances"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// ToLedgerBalancesResponse converts domain balances to a DTO response
func ToLedgerBalancesResponse(balances []domain.LedgerBalance, from, to time.Time) LedgerBalancesResponse {
	response := LedgerBalancesResponse{
		FromDate: from.Format("2006-01-02"),
		ToDate:   to.Format("2006-01-02"),
		Balances: make([]LedgerBalanceResponse, len(balances)),
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, b := range balances {
		response.Balances[i] = LedgerBalanceResponse{
			AccountID:           b.AccountID,
			AccountCode:         b.AccountCode,
			AccountName:         b.AccountName,
			AccountType:         string(b.AccountType),
			OpeningBalance:      b.OpeningBalance.Decimal(),
			PeriodDebit:         b.PeriodDebit.Decimal(),
			PeriodCredit:        b.PeriodCredit.Decimal(),
			NetChange:           b.NetChange.Decimal(),
			ClosingBalance:      b.ClosingBalance.Decimal(),
			LastTransactionDate: b.LastTransactionDate,
		}

		totalDebit = totalDebit.Add(b.PeriodDebit.Decimal())
		totalCredit = totalCredit.Add(b.PeriodCredit.Decimal())
	}

	response.Totals.Debit = totalDebit
	response.Totals.Credit = totalCredit

	return response
}

// LedgerBalancesParams are the query parameters accepted by the period balance report.
type LedgerBalancesParams struct {
	CompanyID *string   `form:"companyID"`
	From      time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To        time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}
