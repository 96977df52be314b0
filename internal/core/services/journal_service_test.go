package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/core/services"
	"github.com/ledgerforge/ledger_engine/internal/dto"
)

// MockEntryRepository is a mock type for the EntryRepositoryWithTx interface
type MockEntryRepository struct {
	mock.Mock
}

// Ensure MockEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, tenantID string, companyID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, companyID, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockEntryRepository) ListPostedEntries(ctx context.Context, tenantID string, companyID *string, from, to time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error) {
	args := m.Called(ctx, entryID, expected, next, updatedBy, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, entryID string, expected, next domain.EntryStatus, updatedBy string, now time.Time) (bool, error) {
	args := m.Called(ctx, tx, entryID, expected, next, updatedBy, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) SetEntryVoidLinksInTx(ctx context.Context, tx pgx.Tx, entryID string, reversingEntryID string, memo string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, reversingEntryID, memo, updatedBy, now)
	return args.Error(0)
}

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockResolverSvc is a mock type for the ResolverSvc interface
type MockResolverSvc struct {
	mock.Mock
}

var _ portssvc.ResolverSvc = (*MockResolverSvc)(nil)

func (m *MockResolverSvc) ResolveAccount(ctx context.Context, tenantID string, companyID *string, reference string, callerID string) (*domain.Resolution, error) {
	args := m.Called(ctx, tenantID, companyID, reference, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resolution), args.Error(1)
}

// MockValidationSvc is a mock type for the ValidationSvc interface
type MockValidationSvc struct {
	mock.Mock
}

var _ portssvc.ValidationSvc = (*MockValidationSvc)(nil)

func (m *MockValidationSvc) ValidateEntry(ctx context.Context, tenantID string, lines []domain.JournalLine, entryDate time.Time) (domain.ValidationResult, error) {
	args := m.Called(ctx, tenantID, lines, entryDate)
	return args.Get(0).(domain.ValidationResult), args.Error(1)
}

// MockInventorySyncer is a mock type for the InventorySyncer interface
type MockInventorySyncer struct {
	mock.Mock
}

var _ portssvc.InventorySyncer = (*MockInventorySyncer)(nil)

func (m *MockInventorySyncer) SyncPurchase(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockInventorySyncer) SyncCategoryScan(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockEntryRepository
	mockResolver  *MockResolverSvc
	mockValidator *MockValidationSvc
	service       portssvc.JournalSvcFacade
	tenantID      string
	callerID      string
	cashID        string
	revenueID     string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEntryRepository)
	suite.mockResolver = new(MockResolverSvc)
	suite.mockValidator = new(MockValidationSvc)
	suite.service = services.NewJournalService(suite.mockRepo, suite.mockResolver, suite.mockValidator)
	suite.tenantID = uuid.NewString()
	suite.callerID = uuid.NewString()
	suite.cashID = uuid.NewString()
	suite.revenueID = uuid.NewString()
}

func (suite *JournalServiceTestSuite) manualSource() dto.EntrySourceRequest {
	return dto.EntrySourceRequest{Kind: "manual", EnteredBy: suite.callerID}
}

func (suite *JournalServiceTestSuite) validResult() domain.ValidationResult {
	return domain.NewValidationResult()
}

func (suite *JournalServiceTestSuite) draftEntry(status domain.EntryStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:   uuid.NewString(),
		TenantID:  suite.tenantID,
		EntryDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Reference: "INV-42",
		Memo:      "March invoice",
		Status:    status,
		Source:    domain.ManualSource{EnteredBy: suite.callerID},
	}
}

func (suite *JournalServiceTestSuite) persistedLines(entryID string) []domain.JournalLine {
	debit := debitOf(suite.cashID, 50)
	debit.EntryID = entryID
	debit.Description = "Cash received"
	credit := creditOf(suite.revenueID, 50)
	credit.EntryID = entryID
	credit.Description = "Sale"
	return []domain.JournalLine{debit, credit}
}

// --- Create ---

func (suite *JournalServiceTestSuite) TestCreateEntry_ResolvesReferences() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Reference: "INV-42",
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountRef: "Cash", Debit: decimal.NewFromInt(200)},
			{AccountRef: "Revenue", Credit: decimal.NewFromInt(200)},
		},
	}

	suite.mockResolver.On("ResolveAccount", ctx, suite.tenantID, (*string)(nil), "Cash", suite.callerID).
		Return(&domain.Resolution{Account: domain.Account{AccountID: suite.cashID}, Tier: domain.TierMatch}, nil).Once()
	suite.mockResolver.On("ResolveAccount", ctx, suite.tenantID, (*string)(nil), "Revenue", suite.callerID).
		Return(&domain.Resolution{Account: domain.Account{AccountID: suite.revenueID}, Tier: domain.TierMatch}, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, result, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().NoError(err)
	suite.True(result.IsValid)
	suite.True(result.IsBalanced)
	suite.Equal(domain.Draft, entry.Status)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(suite.cashID, entry.Lines[0].AccountID)
	suite.Equal(suite.revenueID, entry.Lines[1].AccountID)
	suite.Equal(domain.SourceManual, entry.Source.Kind())

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
	suite.mockValidator.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AutoBalancesLargestCredit() {
	ctx := context.Background()
	// Debits total 100 against 80 of credit; the largest credit line must be
	// raised to 100 and the adjustment reported as a warning.
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(80)},
		},
	}

	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, result, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal("100.00", entry.Lines[0].Debit.String())
	suite.Equal("100.00", entry.Lines[1].Credit.String())
	suite.True(entry.IsBalanced())
	suite.Require().Len(result.Warnings, 1)
	suite.Contains(result.Warnings[0], "line 2 was adjusted")

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_AutoBalanceTieBreaksFirstLine() {
	ctx := context.Background()
	thirdID := uuid.NewString()
	// Two credit lines share the maximum; the earlier one absorbs the difference.
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashID, Debit: decimal.NewFromInt(120)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(50)},
			{AccountID: thirdID, Credit: decimal.NewFromInt(50)},
		},
	}

	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, _, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal("70.00", entry.Lines[1].Credit.String())
	suite.Equal("50.00", entry.Lines[2].Credit.String())
	suite.True(entry.IsBalanced())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoLines() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
	}

	_, result, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().Error(err)
	var validationErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "no lines")

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ValidationFailureBlocksPersistence() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashID, Debit: decimal.NewFromInt(60)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(60)},
		},
	}

	failed := domain.NewValidationResult()
	failed.AddError("account " + suite.revenueID + " not found")
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(failed, nil).Once()

	_, result, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.False(result.IsValid)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ResolutionFailurePropagates() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountRef: "Something", Debit: decimal.NewFromInt(10)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(10)},
		},
	}

	suite.mockResolver.On("ResolveAccount", ctx, suite.tenantID, (*string)(nil), "Something", suite.callerID).
		Return(nil, apperrors.NewResolutionError("Something", suite.tenantID)).Once()

	_, _, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountResolution)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_FallbackResolutionWarns() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountRef: "Mystery spend", Debit: decimal.NewFromInt(30)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(30)},
		},
	}

	suite.mockResolver.On("ResolveAccount", ctx, suite.tenantID, (*string)(nil), "Mystery spend", suite.callerID).
		Return(&domain.Resolution{
			Account: domain.Account{AccountID: suite.cashID, Code: "1000", Name: "Cash"},
			Tier:    domain.TierFallback,
			Warning: `no account matched "Mystery spend"; guessed account 1000 (Cash), needs review`,
		}, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, result, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal(suite.cashID, entry.Lines[0].AccountID)
	suite.Require().NotEmpty(result.Warnings)
	suite.Contains(result.Warnings[0], "needs review")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InventoryFailureSwallowed() {
	ctx := context.Background()
	inventory := new(MockInventorySyncer)
	service := services.NewJournalService(suite.mockRepo, suite.mockResolver, suite.mockValidator,
		services.WithInventorySyncer(inventory))

	req := dto.CreateEntryRequest{
		EntryDate: time.Now().UTC(),
		Memo:      "Office chair purchase",
		Source:    suite.manualSource(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashID, Debit: decimal.NewFromInt(250)},
			{AccountID: suite.revenueID, Credit: decimal.NewFromInt(250)},
		},
	}

	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, req.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	inventory.On("SyncPurchase", ctx, mock.Anything).Return(assert.AnError).Once()

	entry, _, err := service.CreateEntry(ctx, suite.tenantID, req, suite.callerID)

	// The inventory failure never reaches the caller.
	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)

	inventory.AssertExpectations(suite.T())
}

// --- Post ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Draft)
	lines := suite.persistedLines(entry.EntryID)

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, lines, entry.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.Draft, domain.Posted, suite.callerID, mock.Anything).
		Return(true, nil).Once()

	posted, err := suite.service.PostEntry(ctx, suite.tenantID, entry.EntryID, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(lines, posted.Lines)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockValidator.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Posted)

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.tenantID, entry.EntryID, suite.callerID)

	suite.Require().Error(err)
	var lifecycleErr *apperrors.LifecycleError
	suite.Require().ErrorAs(err, &lifecycleErr)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.Equal(domain.Posted, lifecycleErr.Status)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRace() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Draft)
	lines := suite.persistedLines(entry.EntryID)
	concurrentlyPosted := *entry
	concurrentlyPosted.Status = domain.Posted

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, lines, entry.EntryDate).
		Return(suite.validResult(), nil).Once()
	// The CAS observes a status change: another caller posted first.
	suite.mockRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.Draft, domain.Posted, suite.callerID, mock.Anything).
		Return(false, nil).Once()
	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(&concurrentlyPosted, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.tenantID, entry.EntryID, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_RevalidationFailure() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Draft)
	lines := suite.persistedLines(entry.EntryID)

	drifted := domain.NewValidationResult()
	drifted.MarkUnbalanced("entry is unbalanced: debits total 50, credits total 40")

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, lines, entry.EntryDate).
		Return(drifted, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.tenantID, entry.EntryID, suite.callerID)

	suite.Require().Error(err)
	var validationErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.False(validationErr.Result.IsBalanced)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_WrongTenantReadsNotFound() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Draft)
	entry.TenantID = uuid.NewString()

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.tenantID, entry.EntryID, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Void ---

func (suite *JournalServiceTestSuite) TestVoidEntry_CreatesPostedReversal() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Posted)
	lines := suite.persistedLines(entry.EntryID)
	req := dto.VoidEntryRequest{Reason: "duplicate invoice"}

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, entry.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("UpdateEntryStatusInTx", ctx, mock.Anything, entry.EntryID, domain.Posted, domain.Voided, suite.callerID, mock.Anything).
		Return(true, nil).Once()
	suite.mockRepo.On("SetEntryVoidLinksInTx", ctx, mock.Anything, entry.EntryID, mock.Anything,
		"March invoice | Voided: duplicate invoice", suite.callerID, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	reversal, err := suite.service.VoidEntry(ctx, suite.tenantID, entry.EntryID, req, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.Require().NotNil(reversal.OriginalEntryID)
	suite.Equal(entry.EntryID, *reversal.OriginalEntryID)

	// Debit and credit swap per line; descriptions gain the reversal prefix.
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal(suite.cashID, reversal.Lines[0].AccountID)
	suite.Equal("50.00", reversal.Lines[0].Credit.String())
	suite.True(reversal.Lines[0].Debit.IsZero())
	suite.Equal("Reversal: Cash received", reversal.Lines[0].Description)
	suite.Equal(suite.revenueID, reversal.Lines[1].AccountID)
	suite.Equal("50.00", reversal.Lines[1].Debit.String())
	suite.True(reversal.Lines[1].Credit.IsZero())

	source, ok := reversal.Source.(domain.VoidSource)
	suite.Require().True(ok)
	suite.Equal(entry.EntryID, source.OriginalEntryID)
	suite.Equal("duplicate invoice", source.Reason)

	// The original's lines are untouched.
	suite.Equal("50.00", lines[0].Debit.String())
	suite.True(lines[0].Credit.IsZero())

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_DraftCanBeVoided() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Draft)
	lines := suite.persistedLines(entry.EntryID)

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, entry.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	// A draft never contributed to balances, so its reversal must be
	// persisted in Draft too or the void itself would move the ledger.
	suite.mockRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.Draft
	}), mock.Anything).Return(nil).Once()
	suite.mockRepo.On("UpdateEntryStatusInTx", ctx, mock.Anything, entry.EntryID, domain.Draft, domain.Voided, suite.callerID, mock.Anything).
		Return(true, nil).Once()
	suite.mockRepo.On("SetEntryVoidLinksInTx", ctx, mock.Anything, entry.EntryID, mock.Anything, mock.Anything, suite.callerID, mock.Anything).
		Return(nil).Once()
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	reversal, err := suite.service.VoidEntry(ctx, suite.tenantID, entry.EntryID, dto.VoidEntryRequest{Reason: "abandoned"}, suite.callerID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, reversal.Status)
	suite.Require().NotNil(reversal.OriginalEntryID)
	suite.Equal(entry.EntryID, *reversal.OriginalEntryID)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_AlreadyVoided() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Voided)

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.VoidEntry(ctx, suite.tenantID, entry.EntryID, dto.VoidEntryRequest{Reason: "again"}, suite.callerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyVoided)

	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *JournalServiceTestSuite) TestVoidEntry_LostRaceRollsBack() {
	ctx := context.Background()
	entry := suite.draftEntry(domain.Posted)
	lines := suite.persistedLines(entry.EntryID)

	suite.mockRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockValidator.On("ValidateEntry", ctx, suite.tenantID, mock.Anything, entry.EntryDate).
		Return(suite.validResult(), nil).Once()
	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("SaveEntryInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("UpdateEntryStatusInTx", ctx, mock.Anything, entry.EntryID, domain.Posted, domain.Voided, suite.callerID, mock.Anything).
		Return(false, nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.VoidEntry(ctx, suite.tenantID, entry.EntryID, dto.VoidEntryRequest{Reason: "late"}, suite.callerID)

	// Losing the CAS means the status moved concurrently, not that the entry
	// is voided; the caller gets a retryable conflict.
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)

	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
