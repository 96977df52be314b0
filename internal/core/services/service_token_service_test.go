package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/core/services"
)

// MockServiceTokenRepository is a mock type for the ServiceTokenRepository interface
type MockServiceTokenRepository struct {
	mock.Mock
}

// Ensure MockServiceTokenRepository implements portsrepo.ServiceTokenRepository
var _ portsrepo.ServiceTokenRepository = (*MockServiceTokenRepository)(nil)

func (m *MockServiceTokenRepository) Create(ctx context.Context, token *domain.ServiceToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockServiceTokenRepository) FindByID(ctx context.Context, tokenID string) (*domain.ServiceToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceToken), args.Error(1)
}

func (m *MockServiceTokenRepository) FindByTenantID(ctx context.Context, tenantID string) ([]domain.ServiceToken, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceToken), args.Error(1)
}

func (m *MockServiceTokenRepository) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockServiceTokenRepository) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *MockServiceTokenRepository) RevokeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite Setup ---

type ServiceTokenServiceTestSuite struct {
	suite.Suite
	mockRepo *MockServiceTokenRepository
	service  portssvc.ServiceTokenSvc
	tenantID string
	callerID string
}

func (suite *ServiceTokenServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockServiceTokenRepository)
	suite.service = services.NewServiceTokenService(suite.mockRepo)
	suite.tenantID = uuid.NewString()
	suite.callerID = uuid.NewString()
}

// --- Test Cases ---

func (suite *ServiceTokenServiceTestSuite) TestCreateToken_Success() {
	ctx := context.Background()

	var saved *domain.ServiceToken
	suite.mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.ServiceToken)
	}).Return(nil).Once()

	plaintext, token, err := suite.service.CreateToken(ctx, suite.tenantID, suite.callerID, "nightly-recon", nil)

	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(plaintext, "lfk_"))
	suite.Equal("nightly-recon", token.Name)
	suite.Equal(suite.tenantID, token.TenantID)
	suite.Nil(token.ExpiresAt)
	suite.Require().NotNil(saved)
	// The stored record carries a hash, never the plaintext secret.
	suite.NotContains(plaintext, saved.TokenHash)
	suite.NotEmpty(saved.TokenHash)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ServiceTokenServiceTestSuite) TestCreateToken_WithExpiry() {
	ctx := context.Background()
	expiresIn := 24 * time.Hour

	suite.mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, token, err := suite.service.CreateToken(ctx, suite.tenantID, suite.callerID, "short-lived", &expiresIn)

	suite.Require().NoError(err)
	suite.Require().NotNil(token.ExpiresAt)
	suite.WithinDuration(time.Now().UTC().Add(expiresIn), *token.ExpiresAt, time.Minute)
}

func (suite *ServiceTokenServiceTestSuite) TestCreateToken_RequiresName() {
	ctx := context.Background()

	_, _, err := suite.service.CreateToken(ctx, suite.tenantID, suite.callerID, "", nil)

	suite.Require().Error(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_Roundtrip() {
	ctx := context.Background()

	var saved *domain.ServiceToken
	suite.mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.ServiceToken)
	}).Return(nil).Once()

	plaintext, _, err := suite.service.CreateToken(ctx, suite.tenantID, suite.callerID, "roundtrip", nil)
	suite.Require().NoError(err)

	suite.mockRepo.On("FindByID", ctx, saved.TokenID).Return(saved, nil).Once()
	suite.mockRepo.On("MarkUsed", ctx, saved.TokenID, mock.Anything).Return(nil).Once()

	validated, err := suite.service.ValidateToken(ctx, plaintext)

	suite.Require().NoError(err)
	suite.Equal(saved.TokenID, validated.TokenID)
	suite.Equal(suite.tenantID, validated.TenantID)
	suite.NotNil(validated.LastUsedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_Malformed() {
	ctx := context.Background()

	_, err := suite.service.ValidateToken(ctx, "not-a-token")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindByID", mock.Anything, mock.Anything)
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_Revoked() {
	ctx := context.Background()
	tokenID := uuid.NewString()
	revokedAt := time.Now().UTC().Add(-time.Hour)
	token := &domain.ServiceToken{
		TokenID:   tokenID,
		TenantID:  suite.tenantID,
		TokenHash: "$2a$10$irrelevant",
		RevokedAt: &revokedAt,
	}

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(token, nil).Once()

	_, err := suite.service.ValidateToken(ctx, "lfk_"+tokenID+"_secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Contains(err.Error(), "revoked")
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_Expired() {
	ctx := context.Background()
	tokenID := uuid.NewString()
	expiredAt := time.Now().UTC().Add(-time.Minute)
	token := &domain.ServiceToken{
		TokenID:   tokenID,
		TenantID:  suite.tenantID,
		TokenHash: "$2a$10$irrelevant",
		ExpiresAt: &expiredAt,
	}

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(token, nil).Once()

	_, err := suite.service.ValidateToken(ctx, "lfk_"+tokenID+"_secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Contains(err.Error(), "expired")
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_WrongSecret() {
	ctx := context.Background()

	var saved *domain.ServiceToken
	suite.mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.ServiceToken)
	}).Return(nil).Once()

	_, _, err := suite.service.CreateToken(ctx, suite.tenantID, suite.callerID, "tampered", nil)
	suite.Require().NoError(err)

	suite.mockRepo.On("FindByID", ctx, saved.TokenID).Return(saved, nil).Once()

	_, err = suite.service.ValidateToken(ctx, "lfk_"+saved.TokenID+"_guessed-secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ServiceTokenServiceTestSuite) TestValidateToken_UnknownToken() {
	ctx := context.Background()
	tokenID := uuid.NewString()

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ValidateToken(ctx, "lfk_"+tokenID+"_secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *ServiceTokenServiceTestSuite) TestRevokeToken_Success() {
	ctx := context.Background()
	tokenID := uuid.NewString()
	token := &domain.ServiceToken{TokenID: tokenID, TenantID: suite.tenantID}

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(token, nil).Once()
	suite.mockRepo.On("Revoke", ctx, tokenID, mock.Anything).Return(nil).Once()

	err := suite.service.RevokeToken(ctx, suite.tenantID, tokenID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ServiceTokenServiceTestSuite) TestRevokeToken_CrossTenantReadsNotFound() {
	ctx := context.Background()
	tokenID := uuid.NewString()
	token := &domain.ServiceToken{TokenID: tokenID, TenantID: uuid.NewString()}

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(token, nil).Once()

	err := suite.service.RevokeToken(ctx, suite.tenantID, tokenID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ServiceTokenServiceTestSuite) TestRevokeToken_AlreadyRevokedIsIdempotent() {
	ctx := context.Background()
	tokenID := uuid.NewString()
	revokedAt := time.Now().UTC().Add(-time.Hour)
	token := &domain.ServiceToken{TokenID: tokenID, TenantID: suite.tenantID, RevokedAt: &revokedAt}

	suite.mockRepo.On("FindByID", ctx, tokenID).Return(token, nil).Once()

	err := suite.service.RevokeToken(ctx, suite.tenantID, tokenID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ServiceTokenServiceTestSuite) TestListTokens() {
	ctx := context.Background()
	tokens := []domain.ServiceToken{
		{TokenID: uuid.NewString(), TenantID: suite.tenantID, Name: "a"},
		{TokenID: uuid.NewString(), TenantID: suite.tenantID, Name: "b"},
	}

	suite.mockRepo.On("FindByTenantID", ctx, suite.tenantID).Return(tokens, nil).Once()

	listed, err := suite.service.ListTokens(ctx, suite.tenantID)

	suite.Require().NoError(err)
	suite.Equal(tokens, listed)
}

// --- Run Test Suite ---

func TestServiceTokenService(t *testing.T) {
	suite.Run(t, new(ServiceTokenServiceTestSuite))
}
