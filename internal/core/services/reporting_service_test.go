package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockUnitRepo      *MockUnitRepository
	mockCommunityRepo *MockCommunityRepository
	service           portssvc.ReportingSvcFacade

	communityID string
	unitID      string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockCommunityRepo = new(MockCommunityRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockUnitRepo, suite.mockCommunityRepo)
	suite.communityID = uuid.NewString()
	suite.unitID = uuid.NewString()
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestCommunityDebtSummary_AggregatesPerUnit() {
	ctx := context.Background()
	due := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
	rows := []domain.AccountReportRow{
		{UnitID: "u1", UnitLabel: "1A", Period: "2024-03", DueDate: due, OriginalAmount: decimal.RequireFromString("100.00"), AccruedInterest: decimal.RequireFromString("1.50"), Balance: decimal.RequireFromString("50.00"), State: string(domain.AccountOverdue)},
		{UnitID: "u1", UnitLabel: "1A", Period: "2024-04", DueDate: due, OriginalAmount: decimal.RequireFromString("100.00"), AccruedInterest: decimal.Zero, Balance: decimal.RequireFromString("100.00"), State: string(domain.AccountOpen)},
		{UnitID: "u2", UnitLabel: "1B", Period: "2024-04", DueDate: due, OriginalAmount: decimal.RequireFromString("80.00"), AccruedInterest: decimal.Zero, Balance: decimal.Zero, State: string(domain.AccountPaid)},
	}

	suite.mockCommunityRepo.On("FindCommunityByID", ctx, suite.communityID).Return(&domain.Community{CommunityID: suite.communityID}, nil).Once()
	suite.mockReportingRepo.On("ListAccountRowsByCommunity", ctx, suite.communityID).Return(rows, nil).Once()

	summary, err := suite.service.CommunityDebtSummary(ctx, suite.communityID)

	suite.Require().NoError(err)
	suite.Require().Len(summary.Units, 2)

	// Sorted by label.
	first := summary.Units[0]
	suite.Equal("1A", first.UnitLabel)
	suite.True(first.OriginalAmount.Equal(decimal.RequireFromString("200.00")))
	suite.True(first.AccruedInterest.Equal(decimal.RequireFromString("1.50")))
	// Paid is derived: 100 + 1.50 - 50 on the overdue account.
	suite.True(first.PaidAmount.Equal(decimal.RequireFromString("51.50")))
	suite.True(first.Balance.Equal(decimal.RequireFromString("150.00")))
	suite.Equal(1, first.OverdueAccounts)

	second := summary.Units[1]
	suite.Equal("1B", second.UnitLabel)
	suite.True(second.PaidAmount.Equal(decimal.RequireFromString("80.00")))
	suite.True(second.Balance.IsZero())

	suite.True(summary.TotalBalance.Equal(decimal.RequireFromString("150.00")))
	suite.True(summary.TotalPaid.Equal(decimal.RequireFromString("131.50")))
	suite.Equal(1, summary.OverdueAccounts)
}

func (suite *ReportingServiceTestSuite) TestUnitStatement_ChronologicalWithRunningBalance() {
	ctx := context.Background()
	marchDue := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	aprilDue := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)
	paymentDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	suite.mockUnitRepo.On("FindUnitByID", ctx, suite.unitID).Return(&domain.Unit{UnitID: suite.unitID}, nil).Once()
	suite.mockReportingRepo.On("ListAccountRowsByUnit", ctx, suite.unitID).Return([]domain.AccountReportRow{
		{UnitID: suite.unitID, Period: "2024-04", DueDate: aprilDue, OriginalAmount: decimal.RequireFromString("100.00"), AccruedInterest: decimal.Zero, Balance: decimal.RequireFromString("100.00")},
		{UnitID: suite.unitID, Period: "2024-03", DueDate: marchDue, OriginalAmount: decimal.RequireFromString("100.00"), AccruedInterest: decimal.RequireFromString("1.50"), Balance: decimal.Zero},
	}, nil).Once()
	suite.mockReportingRepo.On("ListPaymentRowsByUnit", ctx, suite.unitID).Return([]domain.PaymentReportRow{
		{PaymentID: uuid.NewString(), ReceivedDate: paymentDate, Method: "TRANSFER", Reference: "OP-123", AmountApplied: decimal.RequireFromString("101.50")},
	}, nil).Once()

	statement, err := suite.service.UnitStatement(ctx, suite.unitID)

	suite.Require().NoError(err)
	suite.Require().Len(statement.Entries, 3)

	suite.Equal(domain.EntryCharge, statement.Entries[0].Kind)
	suite.Equal("Emission 2024-03", statement.Entries[0].Description)
	suite.True(statement.Entries[0].RunningBalance.Equal(decimal.RequireFromString("101.50")))

	suite.Equal(domain.EntryPayment, statement.Entries[1].Kind)
	suite.Equal("TRANSFER OP-123", statement.Entries[1].Description)
	suite.True(statement.Entries[1].RunningBalance.IsZero())

	suite.Equal(domain.EntryCharge, statement.Entries[2].Kind)
	suite.True(statement.Entries[2].RunningBalance.Equal(decimal.RequireFromString("100.00")))
	suite.True(statement.Balance.Equal(decimal.RequireFromString("100.00")))
}

func (suite *ReportingServiceTestSuite) TestUnitStatement_SameDayChargeBeforePayment() {
	ctx := context.Background()
	day := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

	suite.mockUnitRepo.On("FindUnitByID", ctx, suite.unitID).Return(&domain.Unit{UnitID: suite.unitID}, nil).Once()
	suite.mockReportingRepo.On("ListAccountRowsByUnit", ctx, suite.unitID).Return([]domain.AccountReportRow{
		{UnitID: suite.unitID, Period: "2024-04", DueDate: day, OriginalAmount: decimal.RequireFromString("100.00"), AccruedInterest: decimal.Zero, Balance: decimal.Zero},
	}, nil).Once()
	suite.mockReportingRepo.On("ListPaymentRowsByUnit", ctx, suite.unitID).Return([]domain.PaymentReportRow{
		{PaymentID: uuid.NewString(), ReceivedDate: day, Method: "CASH", AmountApplied: decimal.RequireFromString("100.00")},
	}, nil).Once()

	statement, err := suite.service.UnitStatement(ctx, suite.unitID)

	suite.Require().NoError(err)
	suite.Require().Len(statement.Entries, 2)
	suite.Equal(domain.EntryCharge, statement.Entries[0].Kind)
	suite.Equal(domain.EntryPayment, statement.Entries[1].Kind)
	suite.True(statement.Balance.IsZero())
}

// --- Run Suite ---
func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
