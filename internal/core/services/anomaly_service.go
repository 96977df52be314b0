package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/utils/accounting"
)

const defaultAnomalyWindowDays = 30

// anomalyService scans posted entries for unbalanced totals, oversized
// amounts and duplicate signatures.
type anomalyService struct {
	BaseService
	entryRepo            portsrepo.EntryReader
	largeAmountThreshold domain.Money
	defaultWindowDays    int
}

// AnomalyOption is a functional option for configuring the anomaly service
type AnomalyOption func(*anomalyService)

// WithAnomalyThreshold sets the amount above which an entry's total is
// flagged as unusually large. A zero threshold disables the check.
func WithAnomalyThreshold(threshold domain.Money) AnomalyOption {
	return func(s *anomalyService) {
		s.largeAmountThreshold = threshold
	}
}

// WithAnomalyWindow overrides the window used when a caller does not supply
// one. Values below one day are ignored.
func WithAnomalyWindow(days int) AnomalyOption {
	return func(s *anomalyService) {
		if days > 0 {
			s.defaultWindowDays = days
		}
	}
}

// NewAnomalyService creates a new AnomalySvc.
func NewAnomalyService(entryRepo portsrepo.EntryReader, options ...AnomalyOption) portssvc.AnomalySvc {
	svc := &anomalyService{
		entryRepo:            entryRepo,
		largeAmountThreshold: domain.ZeroMoney(),
		defaultWindowDays:    defaultAnomalyWindowDays,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure anomalyService implements the portssvc.AnomalySvc interface
var _ portssvc.AnomalySvc = (*anomalyService)(nil)

// duplicateGroup tracks entries sharing a duplicate signature.
type duplicateGroup struct {
	entryIDs  []string
	reference string
}

// DetectAnomalies scans Posted entries over the trailing window. The
// unbalanced check should be unreachable given validation at post time; it
// stays as a data integrity tripwire. Reports come back ordered critical,
// high, medium, stable within each severity.
func (s *anomalyService) DetectAnomalies(ctx context.Context, tenantID string, companyID *string, windowDays int, callerID string) ([]domain.AnomalyReport, error) {
	logger := s.GetLogger(ctx)

	if windowDays <= 0 {
		windowDays = s.defaultWindowDays
	}
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -windowDays)

	entries, err := s.entryRepo.ListPostedEntries(ctx, tenantID, companyID, from, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list posted entries for anomaly scan",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list posted entries: %w", err)
	}

	var critical, high, medium []domain.AnomalyReport

	groups := make(map[string]*duplicateGroup)
	groupOrder := make([]string, 0)

	for _, entry := range entries {
		totalDebit := accounting.SumDebits(entry.Lines)
		totalCredit := accounting.SumCredits(entry.Lines)

		if !totalDebit.Equal(totalCredit) {
			critical = append(critical, domain.AnomalyReport{
				EntryID:     entry.EntryID,
				AnomalyType: domain.AnomalyUnbalanced,
				Severity:    domain.SeverityCritical,
				Description: fmt.Sprintf("posted entry is unbalanced: debits total %s, credits total %s", totalDebit, totalCredit),
			})
		}

		if s.largeAmountThreshold.IsPositive() &&
			(totalDebit.GreaterThan(s.largeAmountThreshold) || totalCredit.GreaterThan(s.largeAmountThreshold)) {
			tripped := totalDebit
			if totalCredit.GreaterThan(tripped) {
				tripped = totalCredit
			}
			high = append(high, domain.AnomalyReport{
				EntryID:     entry.EntryID,
				AnomalyType: domain.AnomalyLargeAmount,
				Severity:    domain.SeverityHigh,
				Description: fmt.Sprintf("entry total %s exceeds the large amount threshold %s", tripped, s.largeAmountThreshold),
			})
		}

		// Reference-less entries carry no usable signature.
		if entry.Reference == "" {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s|%s",
			entry.Reference, totalDebit, totalCredit, entry.EntryDate.UTC().Format("2006-01-02"))
		group, ok := groups[key]
		if !ok {
			group = &duplicateGroup{reference: entry.Reference}
			groups[key] = group
			groupOrder = append(groupOrder, key)
		}
		group.entryIDs = append(group.entryIDs, entry.EntryID)
	}

	for _, key := range groupOrder {
		group := groups[key]
		if len(group.entryIDs) < 2 {
			continue
		}
		medium = append(medium, domain.AnomalyReport{
			EntryID:         group.entryIDs[0],
			AnomalyType:     domain.AnomalyDuplicate,
			Severity:        domain.SeverityMedium,
			Description:     fmt.Sprintf("%d entries share reference %q with identical totals on the same day", len(group.entryIDs), group.reference),
			RelatedEntryIDs: group.entryIDs,
		})
	}

	reports := make([]domain.AnomalyReport, 0, len(critical)+len(high)+len(medium))
	reports = append(reports, critical...)
	reports = append(reports, high...)
	reports = append(reports, medium...)

	logger.Info("Anomaly scan completed",
		slog.String("tenant_id", tenantID),
		slog.Int("entry_count", len(entries)),
		slog.Int("anomaly_count", len(reports)),
		slog.Int("window_days", windowDays))
	return reports, nil
}
