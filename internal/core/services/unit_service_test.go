package services_test

import (
	"context"
	"testing"

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
type UnitServiceTestSuite struct {
	suite.Suite
	mockUnitRepo      *MockUnitRepository
	mockCommunityRepo *MockCommunityRepository
	service           portssvc.UnitSvcFacade

	communityID string
	actorID     string
}

func (suite *UnitServiceTestSuite) SetupTest() {
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockCommunityRepo = new(MockCommunityRepository)
	suite.service = services.NewUnitService(suite.mockUnitRepo, suite.mockCommunityRepo)
	suite.communityID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *UnitServiceTestSuite) unit(label string, coeff string, active bool) domain.Unit {
	return domain.Unit{
		UnitID:               uuid.NewString(),
		CommunityID:          suite.communityID,
		Label:                label,
		ProrationCoefficient: decimal.RequireFromString(coeff),
		IsActive:             active,
	}
}

// --- Test Cases ---

func (suite *UnitServiceTestSuite) TestCreateUnits_Success() {
	ctx := context.Background()
	req := dto.CreateUnitsRequest{Units: []dto.UnitSpec{
		{Label: "1A", Coefficient: decimal.RequireFromString("0.5")},
		{Label: "1B", Coefficient: decimal.RequireFromString("0.3")},
		{Label: "2A", Coefficient: decimal.RequireFromString("0.2")},
	}}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return([]domain.Unit{}, nil).Once()
	suite.mockUnitRepo.On("SaveUnits", ctx, mock.MatchedBy(func(units []domain.Unit) bool {
		return len(units) == 3 && units[0].IsActive && units[0].CommunityID == suite.communityID
	})).Return(nil).Once()

	units, err := suite.service.CreateUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(units, 3)
	suite.Equal("1A", units[0].Label)
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestCreateUnits_CoefficientsMustSumToOne() {
	ctx := context.Background()
	req := dto.CreateUnitsRequest{Units: []dto.UnitSpec{
		{Label: "1A", Coefficient: decimal.RequireFromString("0.5")},
		{Label: "1B", Coefficient: decimal.RequireFromString("0.4")},
	}}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return([]domain.Unit{}, nil).Once()

	units, err := suite.service.CreateUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(units)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "SaveUnits")
}

func (suite *UnitServiceTestSuite) TestCreateUnits_CountsExistingActiveUnits() {
	ctx := context.Background()
	existing := suite.unit("1A", "0.6", true)
	req := dto.CreateUnitsRequest{Units: []dto.UnitSpec{
		{Label: "1B", Coefficient: decimal.RequireFromString("0.4")},
	}}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return([]domain.Unit{existing}, nil).Once()
	suite.mockUnitRepo.On("SaveUnits", ctx, mock.AnythingOfType("[]domain.Unit")).Return(nil).Once()

	units, err := suite.service.CreateUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(units, 1)
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestCreateUnits_NegativeCoefficient() {
	ctx := context.Background()
	req := dto.CreateUnitsRequest{Units: []dto.UnitSpec{
		{Label: "1A", Coefficient: decimal.RequireFromString("-0.5")},
		{Label: "1B", Coefficient: decimal.RequireFromString("1.5")},
	}}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, true).Return([]domain.Unit{}, nil).Once()

	units, err := suite.service.CreateUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(units)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UnitServiceTestSuite) TestRebalanceUnits_Success() {
	ctx := context.Background()
	unitA := suite.unit("1A", "0.5", true)
	unitB := suite.unit("1B", "0.5", true)
	req := dto.RebalanceUnitsRequest{Coefficients: map[string]decimal.Decimal{
		unitA.UnitID: decimal.RequireFromString("0.7"),
		unitB.UnitID: decimal.RequireFromString("0.3"),
	}}

	rebalancedA := unitA
	rebalancedA.ProrationCoefficient = decimal.RequireFromString("0.7")
	rebalancedB := unitB
	rebalancedB.ProrationCoefficient = decimal.RequireFromString("0.3")

	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{unitA, unitB}, nil).Once()
	suite.mockUnitRepo.On("UpdateCoefficients", ctx, suite.communityID, req.Coefficients, req.Deactivate, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{rebalancedA, rebalancedB}, nil).Once()

	units, err := suite.service.RebalanceUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(units, 2)
	suite.True(units[0].ProrationCoefficient.Equal(decimal.RequireFromString("0.7")))
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestRebalanceUnits_DeactivationNeedsRedistribution() {
	ctx := context.Background()
	unitA := suite.unit("1A", "0.5", true)
	unitB := suite.unit("1B", "0.5", true)
	// Deactivating B without re-spreading its share breaks the invariant.
	req := dto.RebalanceUnitsRequest{Deactivate: []string{unitB.UnitID}}

	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{unitA, unitB}, nil).Once()

	units, err := suite.service.RebalanceUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(units)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "UpdateCoefficients")
}

func (suite *UnitServiceTestSuite) TestRebalanceUnits_DeactivateAndRedistribute() {
	ctx := context.Background()
	unitA := suite.unit("1A", "0.5", true)
	unitB := suite.unit("1B", "0.5", true)
	req := dto.RebalanceUnitsRequest{
		Coefficients: map[string]decimal.Decimal{unitA.UnitID: decimal.NewFromInt(1)},
		Deactivate:   []string{unitB.UnitID},
	}

	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{unitA, unitB}, nil).Once()
	suite.mockUnitRepo.On("UpdateCoefficients", ctx, suite.communityID, req.Coefficients, req.Deactivate, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{unitA, unitB}, nil).Once()

	_, err := suite.service.RebalanceUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestRebalanceUnits_UnknownUnit() {
	ctx := context.Background()
	unitA := suite.unit("1A", "1", true)
	req := dto.RebalanceUnitsRequest{Coefficients: map[string]decimal.Decimal{
		uuid.NewString(): decimal.NewFromInt(1),
	}}

	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{unitA}, nil).Once()

	units, err := suite.service.RebalanceUnits(ctx, suite.communityID, req, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(units)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UnitServiceTestSuite) TestRebalanceUnits_NoUnits() {
	ctx := context.Background()

	suite.mockUnitRepo.On("ListUnitsByCommunity", ctx, suite.communityID, false).Return([]domain.Unit{}, nil).Once()

	units, err := suite.service.RebalanceUnits(ctx, suite.communityID, dto.RebalanceUnitsRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.Nil(units)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestUnitService(t *testing.T) {
	suite.Run(t, new(UnitServiceTestSuite))
}
