package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/ledgerforge/ledger_engine/internal/core/services"
)

// --- Test Suite Setup ---

type AnomalyServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockEntryRepository
	tenantID  string
	callerID  string
	cashID    string
	revenueID string
}

func (suite *AnomalyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEntryRepository)
	suite.tenantID = uuid.NewString()
	suite.callerID = uuid.NewString()
	suite.cashID = uuid.NewString()
	suite.revenueID = uuid.NewString()
}

// balancedEntry builds a Posted entry with equal debit and credit totals.
func (suite *AnomalyServiceTestSuite) balancedEntry(reference string, amount int64, date time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:   uuid.NewString(),
		TenantID:  suite.tenantID,
		EntryDate: date,
		Reference: reference,
		Status:    domain.Posted,
		Lines: []domain.JournalLine{
			debitOf(suite.cashID, amount),
			creditOf(suite.revenueID, amount),
		},
	}
}

func (suite *AnomalyServiceTestSuite) expectEntries(ctx context.Context, entries []domain.JournalEntry) {
	suite.mockRepo.On("ListPostedEntries", ctx, suite.tenantID, (*string)(nil), mock.Anything, mock.Anything).
		Return(entries, nil).Once()
}

// --- Test Cases ---

func (suite *AnomalyServiceTestSuite) TestDetect_CleanLedger() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	suite.expectEntries(ctx, []domain.JournalEntry{
		suite.balancedEntry("INV-1", 100, day),
		suite.balancedEntry("INV-2", 250, day),
	})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Empty(reports)
}

func (suite *AnomalyServiceTestSuite) TestDetect_UnbalancedEntryIsCritical() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	// Should be unreachable through the lifecycle; the scan still trips on it.
	corrupted := domain.JournalEntry{
		EntryID:   uuid.NewString(),
		TenantID:  suite.tenantID,
		EntryDate: day,
		Reference: "INV-9",
		Status:    domain.Posted,
		Lines: []domain.JournalLine{
			debitOf(suite.cashID, 100),
			creditOf(suite.revenueID, 90),
		},
	}
	suite.expectEntries(ctx, []domain.JournalEntry{corrupted})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 1)
	suite.Equal(domain.AnomalyUnbalanced, reports[0].AnomalyType)
	suite.Equal(domain.SeverityCritical, reports[0].Severity)
	suite.Equal(corrupted.EntryID, reports[0].EntryID)
	suite.Contains(reports[0].Description, "100.00")
	suite.Contains(reports[0].Description, "90.00")
}

func (suite *AnomalyServiceTestSuite) TestDetect_LargeAmountIsHigh() {
	ctx := context.Background()
	threshold := domain.MoneyFromDecimal(decimal.NewFromInt(10000))
	service := services.NewAnomalyService(suite.mockRepo, services.WithAnomalyThreshold(threshold))
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	big := suite.balancedEntry("INV-BIG", 15000, day)
	small := suite.balancedEntry("INV-SMALL", 500, day)
	suite.expectEntries(ctx, []domain.JournalEntry{big, small})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 1)
	suite.Equal(domain.AnomalyLargeAmount, reports[0].AnomalyType)
	suite.Equal(domain.SeverityHigh, reports[0].Severity)
	suite.Equal(big.EntryID, reports[0].EntryID)
}

func (suite *AnomalyServiceTestSuite) TestDetect_LargeAmountReportsTrippingSide() {
	ctx := context.Background()
	threshold := domain.MoneyFromDecimal(decimal.NewFromInt(10000))
	service := services.NewAnomalyService(suite.mockRepo, services.WithAnomalyThreshold(threshold))
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	// Credits exceed the threshold while debits stay under it; the finding
	// must quote the side that tripped the check.
	lopsided := domain.JournalEntry{
		EntryID:   uuid.NewString(),
		TenantID:  suite.tenantID,
		EntryDate: day,
		Status:    domain.Posted,
		Lines: []domain.JournalLine{
			debitOf(suite.cashID, 500),
			creditOf(suite.revenueID, 15000),
		},
	}
	suite.expectEntries(ctx, []domain.JournalEntry{lopsided})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 2)
	suite.Equal(domain.AnomalyUnbalanced, reports[0].AnomalyType)
	suite.Equal(domain.AnomalyLargeAmount, reports[1].AnomalyType)
	suite.Contains(reports[1].Description, "15000.00")
	suite.NotContains(reports[1].Description, "500.00")
}

func (suite *AnomalyServiceTestSuite) TestDetect_ZeroThresholdDisablesLargeAmountCheck() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	suite.expectEntries(ctx, []domain.JournalEntry{
		suite.balancedEntry("INV-HUGE", 9_000_000, day),
	})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Empty(reports)
}

func (suite *AnomalyServiceTestSuite) TestDetect_DuplicatesGroupedByDay() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	first := suite.balancedEntry("INV-1", 100, day.Add(9*time.Hour))
	second := suite.balancedEntry("INV-1", 100, day.Add(16*time.Hour))
	// Same reference and totals on a different day: a separate signature.
	nextDay := suite.balancedEntry("INV-1", 100, day.AddDate(0, 0, 1))
	// Same day, same reference, different amount: not a duplicate.
	otherAmount := suite.balancedEntry("INV-1", 80, day)
	suite.expectEntries(ctx, []domain.JournalEntry{first, second, nextDay, otherAmount})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 1)
	suite.Equal(domain.AnomalyDuplicate, reports[0].AnomalyType)
	suite.Equal(domain.SeverityMedium, reports[0].Severity)
	suite.ElementsMatch([]string{first.EntryID, second.EntryID}, reports[0].RelatedEntryIDs)
	suite.Contains(reports[0].Description, "INV-1")
}

func (suite *AnomalyServiceTestSuite) TestDetect_ReferencelessEntriesNeverGroup() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	suite.expectEntries(ctx, []domain.JournalEntry{
		suite.balancedEntry("", 100, day),
		suite.balancedEntry("", 100, day),
	})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Empty(reports)
}

func (suite *AnomalyServiceTestSuite) TestDetect_SeverityOrdering() {
	ctx := context.Background()
	threshold := domain.MoneyFromDecimal(decimal.NewFromInt(10000))
	service := services.NewAnomalyService(suite.mockRepo, services.WithAnomalyThreshold(threshold))
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	dupA := suite.balancedEntry("INV-2", 200, day)
	dupB := suite.balancedEntry("INV-2", 200, day)
	big := suite.balancedEntry("INV-BIG", 20000, day)
	corrupted := domain.JournalEntry{
		EntryID:   uuid.NewString(),
		TenantID:  suite.tenantID,
		EntryDate: day,
		Reference: "INV-BAD",
		Status:    domain.Posted,
		Lines: []domain.JournalLine{
			debitOf(suite.cashID, 10),
			creditOf(suite.revenueID, 5),
		},
	}
	// Deliberately interleaved; the report order must still be critical, high, medium.
	suite.expectEntries(ctx, []domain.JournalEntry{dupA, big, corrupted, dupB})

	reports, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(reports, 3)
	suite.Equal(domain.SeverityCritical, reports[0].Severity)
	suite.Equal(domain.SeverityHigh, reports[1].Severity)
	suite.Equal(domain.SeverityMedium, reports[2].Severity)
}

func (suite *AnomalyServiceTestSuite) TestDetect_RepoError() {
	ctx := context.Background()
	service := services.NewAnomalyService(suite.mockRepo)

	suite.mockRepo.On("ListPostedEntries", ctx, suite.tenantID, (*string)(nil), mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	_, err := service.DetectAnomalies(ctx, suite.tenantID, nil, 30, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

// --- Run Test Suite ---

func TestAnomalyService(t *testing.T) {
	suite.Run(t, new(AnomalyServiceTestSuite))
}
