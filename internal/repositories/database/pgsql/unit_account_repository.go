package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/condoledger/condoledger/internal/models"
	"github.com/condoledger/condoledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxUnitAccountRepository struct {
	BaseRepository
}

// newPgxUnitAccountRepository creates a new repository for unit account data.
func newPgxUnitAccountRepository(pool *pgxpool.Pool) portsrepo.UnitAccountRepositoryFacade {
	return &PgxUnitAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitAccountRepositoryFacade = (*PgxUnitAccountRepository)(nil)

const unitAccountColumns = `unit_account_id, unit_id, emission_id, original_amount, accrued_interest, balance, state, last_accrual_at, version, created_at, created_by, last_updated_at, last_updated_by`

func scanUnitAccount(row pgx.Row) (*models.UnitAccount, error) {
	var model models.UnitAccount
	err := row.Scan(
		&model.UnitAccountID,
		&model.UnitID,
		&model.EmissionID,
		&model.OriginalAmount,
		&model.AccruedInterest,
		&model.Balance,
		&model.State,
		&model.LastAccrualAt,
		&model.Version,
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

// FindUnitAccountByID retrieves a unit account by its ID.
func (r *PgxUnitAccountRepository) FindUnitAccountByID(ctx context.Context, unitAccountID string) (*domain.UnitAccount, error) {
	query := `SELECT ` + unitAccountColumns + ` FROM unit_accounts WHERE unit_account_id = $1;`
	model, err := scanUnitAccount(r.Pool.QueryRow(ctx, query, unitAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("unit account %s not found", unitAccountID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find unit account %s", unitAccountID), err)
	}
	account := mapping.ToDomainUnitAccount(*model)
	return &account, nil
}

// FindDetailsByAccountID retrieves the breakdown rows of a unit account.
func (r *PgxUnitAccountRepository) FindDetailsByAccountID(ctx context.Context, unitAccountID string) ([]domain.UnitAccountDetail, error) {
	query := `
		SELECT detail_id, unit_account_id, expense_id, category_id, amount
		FROM unit_account_details
		WHERE unit_account_id = $1
		ORDER BY detail_id;
	`
	rows, err := r.Pool.Query(ctx, query, unitAccountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list details for account %s", unitAccountID), err)
	}
	defer rows.Close()

	details := []domain.UnitAccountDetail{}
	for rows.Next() {
		var model models.UnitAccountDetail
		if err := rows.Scan(&model.DetailID, &model.UnitAccountID, &model.ExpenseID, &model.CategoryID, &model.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account detail row", err)
		}
		details = append(details, mapping.ToDomainUnitAccountDetail(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account detail rows", err)
	}
	return details, nil
}

// ListAccountsByEmission retrieves all unit accounts of an emission.
func (r *PgxUnitAccountRepository) ListAccountsByEmission(ctx context.Context, emissionID string) ([]domain.UnitAccount, error) {
	query := `SELECT ` + unitAccountColumns + ` FROM unit_accounts WHERE emission_id = $1 ORDER BY unit_account_id;`
	rows, err := r.Pool.Query(ctx, query, emissionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list accounts for emission %s", emissionID), err)
	}
	defer rows.Close()

	accountModels := []models.UnitAccount{}
	for rows.Next() {
		model, err := scanUnitAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit account row", err)
		}
		accountModels = append(accountModels, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit account rows", err)
	}
	return mapping.ToDomainUnitAccountSlice(accountModels), nil
}

const accountWithDueDateQuery = `
	SELECT a.unit_account_id, a.unit_id, a.emission_id, a.original_amount, a.accrued_interest, a.balance, a.state, a.last_accrual_at, a.version, a.created_at, a.created_by, a.last_updated_at, a.last_updated_by, e.due_date
	FROM unit_accounts a
	JOIN emissions e ON e.emission_id = a.emission_id
`

func (r *PgxUnitAccountRepository) queryWithDueDate(ctx context.Context, query string, args ...any) ([]domain.OutstandingAccount, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unit accounts", err)
	}
	defer rows.Close()

	accounts := []domain.OutstandingAccount{}
	for rows.Next() {
		var model models.UnitAccount
		var dueDate time.Time
		if err := rows.Scan(
			&model.UnitAccountID,
			&model.UnitID,
			&model.EmissionID,
			&model.OriginalAmount,
			&model.AccruedInterest,
			&model.Balance,
			&model.State,
			&model.LastAccrualAt,
			&model.Version,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
			&dueDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit account row", err)
		}
		accounts = append(accounts, domain.OutstandingAccount{
			UnitAccount: mapping.ToDomainUnitAccount(model),
			DueDate:     dueDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit account rows", err)
	}
	return accounts, nil
}

// ListAccountsByUnit retrieves all unit accounts of a unit with their due
// dates, newest emission first.
func (r *PgxUnitAccountRepository) ListAccountsByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error) {
	query := accountWithDueDateQuery + `
		WHERE a.unit_id = $1
		ORDER BY e.due_date DESC, a.unit_account_id;
	`
	return r.queryWithDueDate(ctx, query, unitID)
}

// ListOutstandingByUnit retrieves the unit's accounts that still carry debt.
func (r *PgxUnitAccountRepository) ListOutstandingByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error) {
	query := accountWithDueDateQuery + `
		WHERE a.unit_id = $1 AND a.state = ANY($2)
		ORDER BY e.due_date, a.unit_account_id;
	`
	outstanding := []string{string(domain.AccountOpen), string(domain.AccountPartiallyPaid), string(domain.AccountOverdue)}
	return r.queryWithDueDate(ctx, query, unitID, outstanding)
}

// ListAccrualCandidates retrieves the outstanding accounts of a community
// whose emission is due before the cutoff.
func (r *PgxUnitAccountRepository) ListAccrualCandidates(ctx context.Context, communityID string, dueBefore time.Time) ([]domain.OutstandingAccount, error) {
	query := accountWithDueDateQuery + `
		JOIN units u ON u.unit_id = a.unit_id
		WHERE u.community_id = $1 AND a.state = ANY($2) AND e.due_date < $3
		ORDER BY a.unit_account_id;
	`
	outstanding := []string{string(domain.AccountOpen), string(domain.AccountPartiallyPaid), string(domain.AccountOverdue)}
	return r.queryWithDueDate(ctx, query, communityID, outstanding, dueBefore)
}

// ApplyAccrual adds the interest delta to both accrued interest and balance,
// advances the accrual anchor and bumps the version, guarded on the expected
// version so concurrent writers never double-charge.
func (r *PgxUnitAccountRepository) ApplyAccrual(ctx context.Context, unitAccountID string, interestDelta decimal.Decimal, newState domain.UnitAccountState, lastAccrualAt time.Time, expectedVersion int64, now time.Time) error {
	query := `
		UPDATE unit_accounts
		SET accrued_interest = accrued_interest + $1,
		    balance = balance + $1,
		    state = $2,
		    last_accrual_at = $3,
		    version = version + 1,
		    last_updated_at = $4
		WHERE unit_account_id = $5 AND version = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, interestDelta, string(newState), lastAccrualAt, now, unitAccountID, expectedVersion)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to accrue on account %s", unitAccountID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s version moved past %d: %w", unitAccountID, expectedVersion, apperrors.ErrConcurrencyConflict)
	}
	return nil
}
