package repositories

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindExpensesByIDs retrieves multiple expenses keyed by ID.
	FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error)

	// ListExpensesByCommunity retrieves a paginated list of expenses,
	// optionally filtered by state.
	ListExpensesByCommunity(ctx context.Context, communityID string, state *domain.ExpenseState, limit int, offset int) ([]domain.Expense, error)

	// ListHistoryByExpenseID retrieves the append-only audit trail, oldest first.
	ListHistoryByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseHistoryEntry, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpenseWithHistory persists a new expense and its creation audit
	// entry in a single transaction.
	SaveExpenseWithHistory(ctx context.Context, expense domain.Expense, entry domain.ExpenseHistoryEntry) error

	// TransitionStateWithHistory updates the expense row (state, approver,
	// void flag, audit fields) and inserts the audit entry in a single
	// transaction. The update is guarded on the expected current state; a
	// concurrent transition surfaces as ErrConcurrencyConflict.
	TransitionStateWithHistory(ctx context.Context, expense domain.Expense, expectedState domain.ExpenseState, entry domain.ExpenseHistoryEntry) error

	// MarkExpensesPaid flips INCLUDED_IN_EMISSION expenses to PAID with audit
	// entries; expenses in any other state are skipped (idempotent).
	MarkExpensesPaid(ctx context.Context, expenseIDs []string, entries []domain.ExpenseHistoryEntry) error
}

// ExpenseCategoryRepository defines operations for expense categories
type ExpenseCategoryRepository interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.ExpenseCategory) error

	// FindCategoryByID retrieves a category by ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error)

	// ListCategories retrieves the global categories plus those scoped to the
	// given community.
	ListCategories(ctx context.Context, communityID string) ([]domain.ExpenseCategory, error)
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	ExpenseCategoryRepository
}
