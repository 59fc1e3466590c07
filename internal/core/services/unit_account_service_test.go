package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type UnitAccountServiceTestSuite struct {
	suite.Suite
	mockUnitAccountRepo *MockUnitAccountRepository
	mockCommunityRepo   *MockCommunityRepository
	mockUnitRepo        *MockUnitRepository
	service             portssvc.UnitAccountSvcFacade

	communityID string
}

func (suite *UnitAccountServiceTestSuite) SetupTest() {
	suite.mockUnitAccountRepo = new(MockUnitAccountRepository)
	suite.mockCommunityRepo = new(MockCommunityRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.service = services.NewUnitAccountService(suite.mockUnitAccountRepo, suite.mockCommunityRepo, suite.mockUnitRepo)
	suite.communityID = uuid.NewString()
}

func (suite *UnitAccountServiceTestSuite) params(rate string, graceDays int, base domain.InterestBase) *domain.BillingParameters {
	return &domain.BillingParameters{
		CommunityID:    suite.communityID,
		GraceDays:      graceDays,
		LateFeeRate:    decimal.RequireFromString(rate),
		InterestMethod: domain.InterestSimple,
		InterestBase:   base,
		RoundingRule:   domain.RoundNearest,
	}
}

func (suite *UnitAccountServiceTestSuite) candidate(balance string, due time.Time) domain.OutstandingAccount {
	amount := decimal.RequireFromString(balance)
	return domain.OutstandingAccount{
		UnitAccount: domain.UnitAccount{
			UnitAccountID:  uuid.NewString(),
			UnitID:         uuid.NewString(),
			EmissionID:     uuid.NewString(),
			OriginalAmount: amount,
			Balance:        amount,
			State:          domain.AccountOpen,
			Version:        1,
		},
		DueDate: due,
	}
}

// --- Test Cases ---

func (suite *UnitAccountServiceTestSuite) TestGetUnitAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	expectedAccount := &domain.UnitAccount{UnitAccountID: accountID}
	expectedDetails := []domain.UnitAccountDetail{{DetailID: uuid.NewString(), UnitAccountID: accountID}}

	suite.mockUnitAccountRepo.On("FindUnitAccountByID", ctx, accountID).Return(expectedAccount, nil).Once()
	suite.mockUnitAccountRepo.On("FindDetailsByAccountID", ctx, accountID).Return(expectedDetails, nil).Once()

	account, details, err := suite.service.GetUnitAccount(ctx, accountID)

	suite.Require().NoError(err)
	suite.Equal(expectedAccount, account)
	suite.Equal(expectedDetails, details)
	suite.mockUnitAccountRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_WholeMonthsOnly() {
	ctx := context.Background()
	asOf := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	// Due 2024-04-05, no grace: one whole month elapsed by 2024-05-20.
	candidate := suite.candidate("100.00", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0.015", 0, domain.BaseTotalDebt), nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, suite.communityID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()
	suite.mockUnitAccountRepo.On("ApplyAccrual", ctx, candidate.UnitAccountID,
		mock.MatchedBy(func(delta decimal.Decimal) bool { return delta.Equal(decimal.RequireFromString("1.50")) }),
		domain.AccountOverdue,
		time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
		int64(1),
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, accrued)
	suite.mockUnitAccountRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_GraceDaysDelayAnchor() {
	ctx := context.Background()
	asOf := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	// Due 2024-04-05 with 10 grace days: anchor 2024-04-15, no whole month by 2024-05-10.
	candidate := suite.candidate("100.00", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0.015", 10, domain.BaseTotalDebt), nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, suite.communityID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(0, accrued)
	suite.mockUnitAccountRepo.AssertNotCalled(suite.T(), "ApplyAccrual")
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_AnchorFromLastAccrual() {
	ctx := context.Background()
	asOf := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	candidate := suite.candidate("100.00", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	lastAccrual := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	candidate.LastAccrualAt = &lastAccrual

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0.01", 0, domain.BaseTotalDebt), nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, suite.communityID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()
	// Two whole months since the last accrual, not four since the due date.
	suite.mockUnitAccountRepo.On("ApplyAccrual", ctx, candidate.UnitAccountID,
		mock.MatchedBy(func(delta decimal.Decimal) bool { return delta.Equal(decimal.RequireFromString("2.00")) }),
		domain.AccountOverdue,
		time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
		int64(1),
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, accrued)
	suite.mockUnitAccountRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_OverdueInstallmentBase() {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	candidate := suite.candidate("200.00", time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC))
	// Partially paid: interest must accrue on the balance, not the original.
	candidate.Balance = decimal.RequireFromString("50.00")

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0.02", 0, domain.BaseOverdueInstallment), nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, suite.communityID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()
	suite.mockUnitAccountRepo.On("ApplyAccrual", ctx, candidate.UnitAccountID,
		mock.MatchedBy(func(delta decimal.Decimal) bool { return delta.Equal(decimal.RequireFromString("1.00")) }),
		domain.AccountOverdue,
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		int64(1),
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, accrued)
	suite.mockUnitAccountRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_ZeroRateSkipsCommunity() {
	ctx := context.Background()
	asOf := time.Now()

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0", 0, domain.BaseTotalDebt), nil).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(0, accrued)
	suite.mockUnitAccountRepo.AssertNotCalled(suite.T(), "ListAccrualCandidates")
}

func (suite *UnitAccountServiceTestSuite) TestAccrueCommunityInterest_VersionConflictSkipsAccount() {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	candidate := suite.candidate("100.00", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params("0.015", 0, domain.BaseTotalDebt), nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, suite.communityID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()
	suite.mockUnitAccountRepo.On("ApplyAccrual", ctx, candidate.UnitAccountID, mock.AnythingOfType("decimal.Decimal"), domain.AccountOverdue, mock.AnythingOfType("time.Time"), int64(1), mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConcurrencyConflict).Once()

	accrued, err := suite.service.AccrueCommunityInterest(ctx, suite.communityID, asOf)

	suite.Require().NoError(err)
	suite.Equal(0, accrued)
	suite.mockUnitAccountRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestAccrueInterest_BrokenCommunityDoesNotStopBatch() {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	brokenID := uuid.NewString()
	healthyID := uuid.NewString()
	candidate := suite.candidate("100.00", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))

	suite.mockCommunityRepo.On("ListActiveCommunityIDs", ctx).Return([]string{brokenID, healthyID}, nil).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, brokenID).Return(nil, assert.AnError).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, healthyID).Return(&domain.BillingParameters{
		CommunityID:    healthyID,
		LateFeeRate:    decimal.RequireFromString("0.015"),
		InterestMethod: domain.InterestSimple,
		InterestBase:   domain.BaseTotalDebt,
	}, nil).Once()
	suite.mockUnitAccountRepo.On("ListAccrualCandidates", ctx, healthyID, asOf).Return([]domain.OutstandingAccount{candidate}, nil).Once()
	suite.mockUnitAccountRepo.On("ApplyAccrual", ctx, candidate.UnitAccountID, mock.AnythingOfType("decimal.Decimal"), domain.AccountOverdue, mock.AnythingOfType("time.Time"), int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AccrueInterest(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(1, result.CommunitiesProcessed)
	suite.Equal(1, result.AccountsAccrued)
	suite.mockCommunityRepo.AssertExpectations(suite.T())
}

func (suite *UnitAccountServiceTestSuite) TestListAccountsByUnit_UnknownUnit() {
	ctx := context.Background()
	unitID := uuid.NewString()

	suite.mockUnitRepo.On("FindUnitByID", ctx, unitID).Return(nil, apperrors.ErrNotFound).Once()

	accounts, err := suite.service.ListAccountsByUnit(ctx, unitID)

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUnitAccountRepo.AssertNotCalled(suite.T(), "ListAccountsByUnit")
}

// --- Run Suite ---
func TestUnitAccountService(t *testing.T) {
	suite.Run(t, new(UnitAccountServiceTestSuite))
}
