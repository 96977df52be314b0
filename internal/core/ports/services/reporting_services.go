package services

import (
	"context"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// BalanceSvc defines operations for aggregating posted activity into
// period balances.
type BalanceSvc interface {
	// LedgerBalances aggregates every Posted entry in [from, to] into one row
	// per account, ordered by account code. Draft and Voided entries never
	// contribute.
	LedgerBalances(ctx context.Context, tenantID string, companyID *string, from, to time.Time, callerID string) ([]domain.LedgerBalance, error)
}

// AnomalySvc defines operations for scanning posted entries for suspicious
// patterns.
type AnomalySvc interface {
	// DetectAnomalies scans Posted entries over the trailing window and
	// reports unbalanced entries, unusually large amounts, and likely
	// duplicates, ordered by severity.
	DetectAnomalies(ctx context.Context, tenantID string, companyID *string, windowDays int, callerID string) ([]domain.AnomalyReport, error)
}
