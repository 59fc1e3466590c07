package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense.
	GetExpenseByID(ctx context.Context, communityID string, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of community expenses,
	// optionally filtered by state.
	ListExpenses(ctx context.Context, communityID string, params dto.ListExpensesParams) ([]domain.Expense, error)

	// ListExpenseHistory retrieves an expense's audit trail, oldest first.
	ListExpenseHistory(ctx context.Context, communityID string, expenseID string) ([]domain.ExpenseHistoryEntry, error)
}

// ExpenseWriterSvc defines the expense lifecycle operations
type ExpenseWriterSvc interface {
	// CreateExpense persists a new expense in DRAFT state.
	CreateExpense(ctx context.Context, communityID string, req dto.CreateExpenseRequest, actorID string) (*domain.Expense, error)

	// SubmitExpense moves a DRAFT expense to PENDING_APPROVAL.
	SubmitExpense(ctx context.Context, communityID string, expenseID string, actorID string) (*domain.Expense, error)

	// ApproveExpense moves a PENDING_APPROVAL expense to APPROVED.
	ApproveExpense(ctx context.Context, communityID string, expenseID string, actorID string) (*domain.Expense, error)

	// RejectExpense moves a PENDING_APPROVAL expense to REJECTED.
	RejectExpense(ctx context.Context, communityID string, expenseID string, req dto.RejectExpenseRequest, actorID string) (*domain.Expense, error)

	// VoidExpense voids an expense from any non-terminal state. An expense
	// already folded into an issued emission is only flagged; the
	// materialized unit accounts are not shrunk.
	VoidExpense(ctx context.Context, communityID string, expenseID string, req dto.VoidExpenseRequest, actorID string) (*domain.Expense, error)
}

// ExpenseCategorySvc defines category operations
type ExpenseCategorySvc interface {
	// CreateCategory persists a new category, global or community-scoped.
	CreateCategory(ctx context.Context, communityID string, req dto.CreateCategoryRequest, actorID string) (*domain.ExpenseCategory, error)

	// ListCategories retrieves the global and community-scoped categories.
	ListCategories(ctx context.Context, communityID string) ([]domain.ExpenseCategory, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseCategorySvc
}
