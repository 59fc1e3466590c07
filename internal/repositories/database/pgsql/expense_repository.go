package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/condoledger/condoledger/internal/models"
	"github.com/condoledger/condoledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, community_id, category_id, amount, incurred_date, description, state, approved_by, voided_after_emission, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var model models.Expense
	err := row.Scan(
		&model.ExpenseID,
		&model.CommunityID,
		&model.CategoryID,
		&model.Amount,
		&model.IncurredDate,
		&model.Description,
		&model.State,
		&model.ApprovedBy,
		&model.VoidedAfterEmission,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	model, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense %s not found", expenseID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find expense %s", expenseID), err)
	}
	expense := mapping.ToDomainExpense(*model)
	return &expense, nil
}

// FindExpensesByIDs retrieves multiple expenses keyed by ID. Missing IDs are
// simply absent from the returned map.
func (r *PgxExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error) {
	if len(expenseIDs) == 0 {
		return map[string]domain.Expense{}, nil
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find expenses", err)
	}
	defer rows.Close()

	expenses := make(map[string]domain.Expense, len(expenseIDs))
	for rows.Next() {
		model, err := scanExpense(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		expenses[model.ExpenseID] = mapping.ToDomainExpense(*model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return expenses, nil
}

// ListExpensesByCommunity retrieves a paginated expense list, newest first,
// optionally filtered by state.
func (r *PgxExpenseRepository) ListExpensesByCommunity(ctx context.Context, communityID string, state *domain.ExpenseState, limit int, offset int) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE community_id = $1 AND ($2::text IS NULL OR state = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4;
	`
	var stateFilter *string
	if state != nil {
		s := string(*state)
		stateFilter = &s
	}
	rows, err := r.Pool.Query(ctx, query, communityID, stateFilter, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list expenses for community %s", communityID), err)
	}
	defer rows.Close()

	expenseModels := []models.Expense{}
	for rows.Next() {
		model, err := scanExpense(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		expenseModels = append(expenseModels, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return mapping.ToDomainExpenseSlice(expenseModels), nil
}

// ListHistoryByExpenseID retrieves the audit trail, oldest first.
func (r *PgxExpenseRepository) ListHistoryByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseHistoryEntry, error) {
	query := `
		SELECT entry_id, expense_id, action, actor_id, note, timestamp
		FROM expense_history
		WHERE expense_id = $1
		ORDER BY timestamp, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list history for expense %s", expenseID), err)
	}
	defer rows.Close()

	entries := []domain.ExpenseHistoryEntry{}
	for rows.Next() {
		var model models.ExpenseHistoryEntry
		if err := rows.Scan(&model.EntryID, &model.ExpenseID, &model.Action, &model.ActorID, &model.Note, &model.Timestamp); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan history row", err)
		}
		entries = append(entries, mapping.ToDomainExpenseHistoryEntry(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating history rows", err)
	}
	return entries, nil
}

const insertHistoryQuery = `
	INSERT INTO expense_history (entry_id, expense_id, action, actor_id, note, timestamp)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// SaveExpenseWithHistory persists a new expense and its creation audit entry
// in a single transaction.
func (r *PgxExpenseRepository) SaveExpenseWithHistory(ctx context.Context, expense domain.Expense, entry domain.ExpenseHistoryEntry) error {
	model := mapping.ToModelExpense(expense)
	entryModel := mapping.ToModelExpenseHistoryEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		model.ExpenseID,
		model.CommunityID,
		model.CategoryID,
		model.Amount,
		model.IncurredDate,
		model.Description,
		model.State,
		model.ApprovedBy,
		model.VoidedAfterEmission,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save expense %s", model.ExpenseID), err)
	}

	_, err = tx.Exec(ctx, insertHistoryQuery,
		entryModel.EntryID, entryModel.ExpenseID, entryModel.Action, entryModel.ActorID, entryModel.Note, entryModel.Timestamp)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save history for expense %s", model.ExpenseID), err)
	}

	return r.Commit(ctx, tx)
}

// TransitionStateWithHistory updates the expense row guarded on the expected
// current state and inserts the audit entry in the same transaction.
func (r *PgxExpenseRepository) TransitionStateWithHistory(ctx context.Context, expense domain.Expense, expectedState domain.ExpenseState, entry domain.ExpenseHistoryEntry) error {
	model := mapping.ToModelExpense(expense)
	entryModel := mapping.ToModelExpenseHistoryEntry(entry)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE expenses
		SET state = $1, approved_by = $2, voided_after_emission = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $6 AND state = $7;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		model.State,
		model.ApprovedBy,
		model.VoidedAfterEmission,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
		model.ExpenseID,
		string(expectedState),
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to transition expense %s", model.ExpenseID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s moved out of %s: %w", model.ExpenseID, expectedState, apperrors.ErrConcurrencyConflict)
	}

	_, err = tx.Exec(ctx, insertHistoryQuery,
		entryModel.EntryID, entryModel.ExpenseID, entryModel.Action, entryModel.ActorID, entryModel.Note, entryModel.Timestamp)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save history for expense %s", model.ExpenseID), err)
	}

	return r.Commit(ctx, tx)
}

// MarkExpensesPaid flips INCLUDED_IN_EMISSION expenses to PAID with audit
// entries. Expenses in any other state are skipped, so re-running after a
// partial failure is safe.
func (r *PgxExpenseRepository) MarkExpensesPaid(ctx context.Context, expenseIDs []string, entries []domain.ExpenseHistoryEntry) error {
	if len(expenseIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryByExpense := make(map[string]domain.ExpenseHistoryEntry, len(entries))
	for _, entry := range entries {
		entryByExpense[entry.ExpenseID] = entry
	}

	updateQuery := `
		UPDATE expenses
		SET state = $1, last_updated_at = $2, last_updated_by = $3
		WHERE expense_id = $4 AND state = $5;
	`
	for _, expenseID := range expenseIDs {
		entry, ok := entryByExpense[expenseID]
		if !ok {
			continue
		}
		tag, err := tx.Exec(ctx, updateQuery,
			string(domain.ExpensePaid), entry.Timestamp, entry.ActorID, expenseID, string(domain.ExpenseIncluded))
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to mark expense %s paid", expenseID), err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		entryModel := mapping.ToModelExpenseHistoryEntry(entry)
		_, err = tx.Exec(ctx, insertHistoryQuery,
			entryModel.EntryID, entryModel.ExpenseID, entryModel.Action, entryModel.ActorID, entryModel.Note, entryModel.Timestamp)
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to save history for expense %s", expenseID), err)
		}
	}

	return r.Commit(ctx, tx)
}

// SaveCategory persists a new category.
func (r *PgxExpenseRepository) SaveCategory(ctx context.Context, category domain.ExpenseCategory) error {
	model := mapping.ToModelExpenseCategory(category)
	query := `
		INSERT INTO expense_categories (category_id, community_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CategoryID,
		model.CommunityID,
		model.Name,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save category %s", model.CategoryID), err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxExpenseRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	query := `
		SELECT category_id, community_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM expense_categories
		WHERE category_id = $1;
	`
	var model models.ExpenseCategory
	err := r.Pool.QueryRow(ctx, query, categoryID).Scan(
		&model.CategoryID,
		&model.CommunityID,
		&model.Name,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %s not found", categoryID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find category %s", categoryID), err)
	}
	category := mapping.ToDomainExpenseCategory(model)
	return &category, nil
}

// ListCategories retrieves the global categories plus those scoped to the
// community, ordered by name.
func (r *PgxExpenseRepository) ListCategories(ctx context.Context, communityID string) ([]domain.ExpenseCategory, error) {
	query := `
		SELECT category_id, community_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM expense_categories
		WHERE community_id IS NULL OR community_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, communityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list categories for community %s", communityID), err)
	}
	defer rows.Close()

	categories := []domain.ExpenseCategory{}
	for rows.Next() {
		var model models.ExpenseCategory
		if err := rows.Scan(
			&model.CategoryID,
			&model.CommunityID,
			&model.Name,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		categories = append(categories, mapping.ToDomainExpenseCategory(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}
	return categories, nil
}
