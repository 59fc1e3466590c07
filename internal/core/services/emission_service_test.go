package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/core/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type EmissionServiceTestSuite struct {
	suite.Suite
	mockEmissionRepo  *MockEmissionRepository
	mockExpenseRepo   *MockExpenseRepository
	mockUnitRepo      *MockUnitRepository
	mockCommunityRepo *MockCommunityRepository
	service           portssvc.EmissionSvcFacade

	communityID string
	actorID     string
	params      *domain.BillingParameters
}

func (suite *EmissionServiceTestSuite) SetupTest() {
	suite.mockEmissionRepo = new(MockEmissionRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockCommunityRepo = new(MockCommunityRepository)
	suite.service = services.NewEmissionService(suite.mockEmissionRepo, suite.mockExpenseRepo, suite.mockUnitRepo, suite.mockCommunityRepo)
	suite.communityID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.params = &domain.BillingParameters{
		CommunityID:    suite.communityID,
		InterestMethod: domain.InterestSimple,
		InterestBase:   domain.BaseTotalDebt,
		RoundingRule:   domain.RoundNearest,
	}
}

func (suite *EmissionServiceTestSuite) threeEqualUnits() []domain.Unit {
	units := make([]domain.Unit, 3)
	for i, id := range []string{"unit-a", "unit-b", "unit-c"} {
		units[i] = domain.Unit{
			UnitID:               id,
			CommunityID:          suite.communityID,
			ProrationCoefficient: decimal.RequireFromString("0.3333333333"),
			IsActive:             true,
		}
	}
	units[0].ProrationCoefficient = decimal.RequireFromString("0.3333333334")
	return units
}

func (suite *EmissionServiceTestSuite) approvedExpense(amount string) domain.Expense {
	return domain.Expense{
		ExpenseID:   uuid.NewString(),
		CommunityID: suite.communityID,
		CategoryID:  uuid.NewString(),
		Amount:      decimal.RequireFromString(amount),
		State:       domain.ExpenseApproved,
	}
}

func (suite *EmissionServiceTestSuite) expectHappyPathLookups(units []domain.Unit, expenses map[string]domain.Expense, expenseIDs []string) {
	ctx := context.Background()
	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params, nil).Once()
	suite.mockEmissionRepo.On("FindIssuedEmissionByPeriod", ctx, suite.communityID, "2024-04").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return(units, nil).Once()
	suite.mockExpenseRepo.On("FindExpensesByIDs", ctx, expenseIDs).Return(expenses, nil).Once()
}

// --- Test Cases ---

func (suite *EmissionServiceTestSuite) TestCreateEmission_SharesConserveTotal() {
	ctx := context.Background()
	units := suite.threeEqualUnits()
	expense := suite.approvedExpense("100.00")
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: expense.ExpenseID, ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.expectHappyPathLookups(units, map[string]domain.Expense{expense.ExpenseID: expense}, []string{expense.ExpenseID})
	suite.mockEmissionRepo.On("IssueEmission", ctx, mock.MatchedBy(func(e domain.Emission) bool {
		return e.Period == "2024-04" && e.State == domain.EmissionIssued && len(e.Lines) == 1
	}), mock.MatchedBy(func(accounts []domain.UnitAccount) bool {
		if len(accounts) != 3 {
			return false
		}
		sum := decimal.Zero
		for _, a := range accounts {
			if !a.Balance.Equal(a.OriginalAmount) || a.State != domain.AccountOpen || a.Version != 1 {
				return false
			}
			sum = sum.Add(a.OriginalAmount)
		}
		return sum.Equal(expense.Amount)
	}), mock.MatchedBy(func(details []domain.UnitAccountDetail) bool {
		return len(details) == 3
	}), mock.MatchedBy(func(entries []domain.ExpenseHistoryEntry) bool {
		return len(entries) == 1 && entries[0].Action == domain.ActionInclude
	})).Return(nil).Once()

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(emission)
	suite.Equal(domain.EmissionIssued, emission.State)
	suite.mockEmissionRepo.AssertExpectations(suite.T())
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_InvalidPeriod() {
	ctx := context.Background()
	req := dto.CreateEmissionRequest{Period: "April 2024"}

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_DuplicatePeriod() {
	ctx := context.Background()
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: uuid.NewString(), ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params, nil).Once()
	suite.mockEmissionRepo.On("FindIssuedEmissionByPeriod", ctx, suite.communityID, "2024-04").Return(&domain.Emission{EmissionID: uuid.NewString()}, nil).Once()

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrDuplicateEmission)
	suite.mockEmissionRepo.AssertNotCalled(suite.T(), "IssueEmission")
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_UnapprovedExpense() {
	ctx := context.Background()
	units := suite.threeEqualUnits()
	expense := suite.approvedExpense("100.00")
	expense.State = domain.ExpenseDraft
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: expense.ExpenseID, ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.expectHappyPathLookups(units, map[string]domain.Expense{expense.ExpenseID: expense}, []string{expense.ExpenseID})

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockEmissionRepo.AssertNotCalled(suite.T(), "IssueEmission")
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_DuplicateExpenseLines() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines: []dto.EmissionLineRequest{
			{ExpenseID: expenseID, ProrationRule: string(domain.ByCoefficient)},
			{ExpenseID: expenseID, ProrationRule: string(domain.EqualSplit)},
		},
	}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params, nil).Once()
	suite.mockEmissionRepo.On("FindIssuedEmissionByPeriod", ctx, suite.communityID, "2024-04").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return(suite.threeEqualUnits(), nil).Once()

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_FixedPerUnitRequiresAmount() {
	ctx := context.Background()
	units := suite.threeEqualUnits()
	expense := suite.approvedExpense("90.00")
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: expense.ExpenseID, ProrationRule: string(domain.FixedPerUnit)}},
	}

	suite.expectHappyPathLookups(units, map[string]domain.Expense{expense.ExpenseID: expense}, []string{expense.ExpenseID})

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_NoActiveUnits() {
	ctx := context.Background()
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: uuid.NewString(), ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockCommunityRepo.On("FindBillingParametersByCommunityID", ctx, suite.communityID).Return(suite.params, nil).Once()
	suite.mockEmissionRepo.On("FindIssuedEmissionByPeriod", ctx, suite.communityID, "2024-04").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return([]domain.Unit{}, nil).Once()

	emission, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_SkipZeroAccounts() {
	ctx := context.Background()
	suite.params.SkipZeroAccounts = true
	units := suite.threeEqualUnits()
	// All weight on unit-a; the other units get a zero share.
	units[0].ProrationCoefficient = decimal.NewFromInt(1)
	units[1].ProrationCoefficient = decimal.Zero
	units[2].ProrationCoefficient = decimal.Zero
	expense := suite.approvedExpense("50.00")
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: expense.ExpenseID, ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.expectHappyPathLookups(units, map[string]domain.Expense{expense.ExpenseID: expense}, []string{expense.ExpenseID})
	suite.mockEmissionRepo.On("IssueEmission", ctx, mock.AnythingOfType("domain.Emission"), mock.MatchedBy(func(accounts []domain.UnitAccount) bool {
		return len(accounts) == 1 && accounts[0].UnitID == "unit-a" && accounts[0].OriginalAmount.Equal(expense.Amount)
	}), mock.AnythingOfType("[]domain.UnitAccountDetail"), mock.AnythingOfType("[]domain.ExpenseHistoryEntry")).Return(nil).Once()

	_, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.mockEmissionRepo.AssertExpectations(suite.T())
}

func (suite *EmissionServiceTestSuite) TestCreateEmission_ZeroShareAccountCreatedAsPaid() {
	ctx := context.Background()
	units := suite.threeEqualUnits()
	units[0].ProrationCoefficient = decimal.NewFromInt(1)
	units[1].ProrationCoefficient = decimal.Zero
	units[2].ProrationCoefficient = decimal.Zero
	expense := suite.approvedExpense("50.00")
	req := dto.CreateEmissionRequest{
		Period:  "2024-04",
		DueDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC),
		Lines:   []dto.EmissionLineRequest{{ExpenseID: expense.ExpenseID, ProrationRule: string(domain.ByCoefficient)}},
	}

	suite.expectHappyPathLookups(units, map[string]domain.Expense{expense.ExpenseID: expense}, []string{expense.ExpenseID})
	suite.mockEmissionRepo.On("IssueEmission", ctx, mock.AnythingOfType("domain.Emission"), mock.MatchedBy(func(accounts []domain.UnitAccount) bool {
		if len(accounts) != 3 {
			return false
		}
		paid := 0
		for _, a := range accounts {
			if a.State == domain.AccountPaid && a.OriginalAmount.IsZero() {
				paid++
			}
		}
		return paid == 2
	}), mock.AnythingOfType("[]domain.UnitAccountDetail"), mock.AnythingOfType("[]domain.ExpenseHistoryEntry")).Return(nil).Once()

	_, err := suite.service.CreateEmission(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.mockEmissionRepo.AssertExpectations(suite.T())
}

func (suite *EmissionServiceTestSuite) TestGetEmissionByID_ForeignCommunityHidden() {
	ctx := context.Background()
	emissionID := uuid.NewString()

	suite.mockEmissionRepo.On("FindEmissionByID", ctx, emissionID).Return(&domain.Emission{
		EmissionID:  emissionID,
		CommunityID: uuid.NewString(),
	}, nil).Once()

	emission, err := suite.service.GetEmissionByID(ctx, suite.communityID, emissionID)

	suite.Require().Error(err)
	suite.Nil(emission)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestEmissionService(t *testing.T) {
	suite.Run(t, new(EmissionServiceTestSuite))
}
