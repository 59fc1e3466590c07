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

type PgxEmissionRepository struct {
	BaseRepository
}

// newPgxEmissionRepository creates a new repository for emission data.
func newPgxEmissionRepository(pool *pgxpool.Pool) portsrepo.EmissionRepositoryFacade {
	return &PgxEmissionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EmissionRepositoryFacade = (*PgxEmissionRepository)(nil)

const emissionColumns = `emission_id, community_id, period, due_date, state, created_at, created_by, last_updated_at, last_updated_by`

func scanEmission(row pgx.Row) (*models.Emission, error) {
	var model models.Emission
	err := row.Scan(
		&model.EmissionID,
		&model.CommunityID,
		&model.Period,
		&model.DueDate,
		&model.State,
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

func (r *PgxEmissionRepository) loadLines(ctx context.Context, emissionID string) ([]domain.EmissionLine, error) {
	query := `
		SELECT line_id, emission_id, expense_id, total_amount, proration_rule, fixed_amount_per_unit
		FROM emission_lines
		WHERE emission_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, emissionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list lines for emission %s", emissionID), err)
	}
	defer rows.Close()

	lineModels := []models.EmissionLine{}
	for rows.Next() {
		var model models.EmissionLine
		if err := rows.Scan(&model.LineID, &model.EmissionID, &model.ExpenseID, &model.TotalAmount, &model.ProrationRule, &model.FixedAmountPerUnit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan emission line row", err)
		}
		lineModels = append(lineModels, model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating emission line rows", err)
	}
	return mapping.ToDomainEmissionLineSlice(lineModels), nil
}

// FindEmissionByID retrieves an emission with its lines.
func (r *PgxEmissionRepository) FindEmissionByID(ctx context.Context, emissionID string) (*domain.Emission, error) {
	query := `SELECT ` + emissionColumns + ` FROM emissions WHERE emission_id = $1;`
	model, err := scanEmission(r.Pool.QueryRow(ctx, query, emissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("emission %s not found", emissionID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find emission %s", emissionID), err)
	}

	emission := mapping.ToDomainEmission(*model)
	lines, err := r.loadLines(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	emission.Lines = lines
	return &emission, nil
}

// FindIssuedEmissionByPeriod retrieves the issued emission for a community
// and period.
func (r *PgxEmissionRepository) FindIssuedEmissionByPeriod(ctx context.Context, communityID string, period string) (*domain.Emission, error) {
	query := `
		SELECT ` + emissionColumns + `
		FROM emissions
		WHERE community_id = $1 AND period = $2 AND state = $3;
	`
	model, err := scanEmission(r.Pool.QueryRow(ctx, query, communityID, period, string(domain.EmissionIssued)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no issued emission for community %s period %s", communityID, period))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find emission for period %s", period), err)
	}
	emission := mapping.ToDomainEmission(*model)
	return &emission, nil
}

// ListEmissionsByCommunity retrieves a paginated emission list, newest
// period first, without lines.
func (r *PgxEmissionRepository) ListEmissionsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Emission, error) {
	query := `
		SELECT ` + emissionColumns + `
		FROM emissions
		WHERE community_id = $1
		ORDER BY period DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, communityID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list emissions for community %s", communityID), err)
	}
	defer rows.Close()

	emissions := []domain.Emission{}
	for rows.Next() {
		model, err := scanEmission(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan emission row", err)
		}
		emissions = append(emissions, mapping.ToDomainEmission(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating emission rows", err)
	}
	return emissions, nil
}

// IssueEmission writes the emission, its lines, all unit accounts and their
// details, and flips the source expenses from APPROVED to
// INCLUDED_IN_EMISSION, all in one transaction. The partial unique index on
// issued (community, period) pairs turns a concurrent duplicate issue into
// ErrDuplicateEmission, and any expense that left APPROVED since planning
// aborts with ErrConcurrencyConflict.
func (r *PgxEmissionRepository) IssueEmission(ctx context.Context, emission domain.Emission, accounts []domain.UnitAccount, details []domain.UnitAccountDetail, historyEntries []domain.ExpenseHistoryEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	emissionModel := mapping.ToModelEmission(emission)
	insertEmission := `
		INSERT INTO emissions (` + emissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, insertEmission,
		emissionModel.EmissionID,
		emissionModel.CommunityID,
		emissionModel.Period,
		emissionModel.DueDate,
		emissionModel.State,
		emissionModel.CreatedAt,
		emissionModel.CreatedBy,
		emissionModel.LastUpdatedAt,
		emissionModel.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("community %s period %s: %w", emission.CommunityID, emission.Period, apperrors.ErrDuplicateEmission)
		}
		return apperrors.NewAppError(500, fmt.Sprintf("failed to insert emission %s", emission.EmissionID), err)
	}

	// Guarded expense flip first: if any expense moved out of APPROVED the
	// whole emission must not exist.
	flipExpense := `
		UPDATE expenses
		SET state = $1, last_updated_at = $2, last_updated_by = $3
		WHERE expense_id = $4 AND state = $5;
	`
	for _, line := range emission.Lines {
		tag, err := tx.Exec(ctx, flipExpense,
			string(domain.ExpenseIncluded),
			emissionModel.LastUpdatedAt,
			emissionModel.LastUpdatedBy,
			line.ExpenseID,
			string(domain.ExpenseApproved),
		)
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to include expense %s", line.ExpenseID), err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("expense %s is no longer APPROVED: %w", line.ExpenseID, apperrors.ErrConcurrencyConflict)
		}
	}

	batch := &pgx.Batch{}
	insertLine := `
		INSERT INTO emission_lines (line_id, emission_id, expense_id, total_amount, proration_rule, fixed_amount_per_unit)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range emission.Lines {
		lineModel := mapping.ToModelEmissionLine(line)
		batch.Queue(insertLine, lineModel.LineID, lineModel.EmissionID, lineModel.ExpenseID, lineModel.TotalAmount, lineModel.ProrationRule, lineModel.FixedAmountPerUnit)
	}

	insertAccount := `
		INSERT INTO unit_accounts (unit_account_id, unit_id, emission_id, original_amount, accrued_interest, balance, state, last_accrual_at, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, account := range accounts {
		accountModel := mapping.ToModelUnitAccount(account)
		batch.Queue(insertAccount,
			accountModel.UnitAccountID,
			accountModel.UnitID,
			accountModel.EmissionID,
			accountModel.OriginalAmount,
			accountModel.AccruedInterest,
			accountModel.Balance,
			accountModel.State,
			accountModel.LastAccrualAt,
			accountModel.Version,
			accountModel.CreatedAt,
			accountModel.CreatedBy,
			accountModel.LastUpdatedAt,
			accountModel.LastUpdatedBy,
		)
	}

	insertDetail := `
		INSERT INTO unit_account_details (detail_id, unit_account_id, expense_id, category_id, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, detail := range details {
		detailModel := mapping.ToModelUnitAccountDetail(detail)
		batch.Queue(insertDetail, detailModel.DetailID, detailModel.UnitAccountID, detailModel.ExpenseID, detailModel.CategoryID, detailModel.Amount)
	}

	for _, entry := range historyEntries {
		entryModel := mapping.ToModelExpenseHistoryEntry(entry)
		batch.Queue(insertHistoryQuery, entryModel.EntryID, entryModel.ExpenseID, entryModel.Action, entryModel.ActorID, entryModel.Note, entryModel.Timestamp)
	}

	results := tx.SendBatch(ctx, batch)
	queued := len(emission.Lines) + len(accounts) + len(details) + len(historyEntries)
	for i := 0; i < queued; i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, fmt.Sprintf("failed to write emission %s", emission.EmissionID), err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close emission batch", err)
	}

	return r.Commit(ctx, tx)
}
