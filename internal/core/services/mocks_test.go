package services_test

import (
	"context"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Shared repository mocks for the service test suites.

// --- Mock CommunityRepository ---
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) FindCommunityByID(ctx context.Context, communityID string) (*domain.Community, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}

func (m *MockCommunityRepository) ListCommunities(ctx context.Context, limit int, offset int) ([]domain.Community, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Community), args.Error(1)
}

func (m *MockCommunityRepository) ListActiveCommunityIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCommunityRepository) FindBillingParametersByCommunityID(ctx context.Context, communityID string) (*domain.BillingParameters, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingParameters), args.Error(1)
}

func (m *MockCommunityRepository) SaveCommunity(ctx context.Context, community domain.Community) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}

func (m *MockCommunityRepository) SaveBillingParameters(ctx context.Context, params domain.BillingParameters) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// --- Mock UnitRepository ---
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListUnitsByCommunity(ctx context.Context, communityID string, activeOnly bool) ([]domain.Unit, error) {
	args := m.Called(ctx, communityID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}

func (m *MockUnitRepository) SaveUnits(ctx context.Context, units []domain.Unit) error {
	args := m.Called(ctx, units)
	return args.Error(0)
}

func (m *MockUnitRepository) UpdateCoefficients(ctx context.Context, communityID string, coefficients map[string]decimal.Decimal, deactivate []string, actorID string, now time.Time) error {
	args := m.Called(ctx, communityID, coefficients, deactivate, actorID, now)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error) {
	args := m.Called(ctx, expenseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByCommunity(ctx context.Context, communityID string, state *domain.ExpenseState, limit int, offset int) ([]domain.Expense, error) {
	args := m.Called(ctx, communityID, state, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListHistoryByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseHistoryEntry, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseHistoryEntry), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpenseWithHistory(ctx context.Context, expense domain.Expense, entry domain.ExpenseHistoryEntry) error {
	args := m.Called(ctx, expense, entry)
	return args.Error(0)
}

func (m *MockExpenseRepository) TransitionStateWithHistory(ctx context.Context, expense domain.Expense, expectedState domain.ExpenseState, entry domain.ExpenseHistoryEntry) error {
	args := m.Called(ctx, expense, expectedState, entry)
	return args.Error(0)
}

func (m *MockExpenseRepository) MarkExpensesPaid(ctx context.Context, expenseIDs []string, entries []domain.ExpenseHistoryEntry) error {
	args := m.Called(ctx, expenseIDs, entries)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveCategory(ctx context.Context, category domain.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockExpenseRepository) ListCategories(ctx context.Context, communityID string) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}

// --- Mock EmissionRepository ---
type MockEmissionRepository struct {
	mock.Mock
}

func (m *MockEmissionRepository) FindEmissionByID(ctx context.Context, emissionID string) (*domain.Emission, error) {
	args := m.Called(ctx, emissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Emission), args.Error(1)
}

func (m *MockEmissionRepository) FindIssuedEmissionByPeriod(ctx context.Context, communityID string, period string) (*domain.Emission, error) {
	args := m.Called(ctx, communityID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Emission), args.Error(1)
}

func (m *MockEmissionRepository) ListEmissionsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Emission, error) {
	args := m.Called(ctx, communityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Emission), args.Error(1)
}

func (m *MockEmissionRepository) IssueEmission(ctx context.Context, emission domain.Emission, accounts []domain.UnitAccount, details []domain.UnitAccountDetail, historyEntries []domain.ExpenseHistoryEntry) error {
	args := m.Called(ctx, emission, accounts, details, historyEntries)
	return args.Error(0)
}

// --- Mock UnitAccountRepository ---
type MockUnitAccountRepository struct {
	mock.Mock
}

func (m *MockUnitAccountRepository) FindUnitAccountByID(ctx context.Context, unitAccountID string) (*domain.UnitAccount, error) {
	args := m.Called(ctx, unitAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnitAccount), args.Error(1)
}

func (m *MockUnitAccountRepository) FindDetailsByAccountID(ctx context.Context, unitAccountID string) ([]domain.UnitAccountDetail, error) {
	args := m.Called(ctx, unitAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnitAccountDetail), args.Error(1)
}

func (m *MockUnitAccountRepository) ListAccountsByEmission(ctx context.Context, emissionID string) ([]domain.UnitAccount, error) {
	args := m.Called(ctx, emissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnitAccount), args.Error(1)
}

func (m *MockUnitAccountRepository) ListAccountsByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingAccount), args.Error(1)
}

func (m *MockUnitAccountRepository) ListOutstandingByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingAccount), args.Error(1)
}

func (m *MockUnitAccountRepository) ListAccrualCandidates(ctx context.Context, communityID string, dueBefore time.Time) ([]domain.OutstandingAccount, error) {
	args := m.Called(ctx, communityID, dueBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingAccount), args.Error(1)
}

func (m *MockUnitAccountRepository) ApplyAccrual(ctx context.Context, unitAccountID string, interestDelta decimal.Decimal, newState domain.UnitAccountState, lastAccrualAt time.Time, expectedVersion int64, now time.Time) error {
	args := m.Called(ctx, unitAccountID, interestDelta, newState, lastAccrualAt, expectedVersion, now)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Payment, error) {
	args := m.Called(ctx, communityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindApplicationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentApplication, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentApplication), args.Error(1)
}

func (m *MockPaymentRepository) SumActiveApplications(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ApplyAllocations(ctx context.Context, payment domain.Payment, plan []domain.AllocationPlan, actorID string, now time.Time) ([]domain.PaymentApplication, []domain.UnitAccount, error) {
	args := m.Called(ctx, payment, plan, actorID, now)
	var apps []domain.PaymentApplication
	if args.Get(0) != nil {
		apps = args.Get(0).([]domain.PaymentApplication)
	}
	var accounts []domain.UnitAccount
	if args.Get(1) != nil {
		accounts = args.Get(1).([]domain.UnitAccount)
	}
	return apps, accounts, args.Error(2)
}

func (m *MockPaymentRepository) ReverseApplications(ctx context.Context, paymentID string, actorID string, now time.Time) error {
	args := m.Called(ctx, paymentID, actorID, now)
	return args.Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListAccountRowsByCommunity(ctx context.Context, communityID string) ([]domain.AccountReportRow, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountReportRow), args.Error(1)
}

func (m *MockReportingRepository) ListAccountRowsByUnit(ctx context.Context, unitID string) ([]domain.AccountReportRow, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountReportRow), args.Error(1)
}

func (m *MockReportingRepository) ListPaymentRowsByUnit(ctx context.Context, unitID string) ([]domain.PaymentReportRow, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentReportRow), args.Error(1)
}

func (m *MockReportingRepository) ListPaymentRowsByCommunity(ctx context.Context, communityID string) ([]domain.PaymentReportRow, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentReportRow), args.Error(1)
}
