package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/condoledger/condoledger/internal/models"
	"github.com/condoledger/condoledger/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, community_id, unit_id, amount, received_date, method, reference, state, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var model models.Payment
	err := row.Scan(
		&model.PaymentID,
		&model.CommunityID,
		&model.UnitID,
		&model.Amount,
		&model.ReceivedDate,
		&model.Method,
		&model.Reference,
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

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	model, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment %s not found", paymentID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find payment %s", paymentID), err)
	}
	payment := mapping.ToDomainPayment(*model)
	return &payment, nil
}

// ListPaymentsByCommunity retrieves a paginated payment list, newest first.
func (r *PgxPaymentRepository) ListPaymentsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE community_id = $1
		ORDER BY received_date DESC, payment_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, communityID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list payments for community %s", communityID), err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		model, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, mapping.ToDomainPayment(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}
	return payments, nil
}

// FindApplicationsByPaymentID retrieves all allocation rows of a payment.
func (r *PgxPaymentRepository) FindApplicationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentApplication, error) {
	query := `
		SELECT application_id, payment_id, unit_account_id, amount_applied, priority, account_version, state, created_at, created_by
		FROM payment_applications
		WHERE payment_id = $1
		ORDER BY priority, application_id;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list applications for payment %s", paymentID), err)
	}
	defer rows.Close()

	applicationModels := []models.PaymentApplication{}
	for rows.Next() {
		var model models.PaymentApplication
		if err := rows.Scan(
			&model.ApplicationID,
			&model.PaymentID,
			&model.UnitAccountID,
			&model.AmountApplied,
			&model.Priority,
			&model.AccountVersion,
			&model.State,
			&model.CreatedAt,
			&model.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment application row", err)
		}
		applicationModels = append(applicationModels, model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment application rows", err)
	}
	return mapping.ToDomainPaymentApplicationSlice(applicationModels), nil
}

// SumActiveApplications returns the total actively applied amount of a payment.
func (r *PgxPaymentRepository) SumActiveApplications(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_applied), 0)
		FROM payment_applications
		WHERE payment_id = $1 AND state = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, paymentID, string(domain.ApplicationActive)).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, fmt.Sprintf("failed to sum applications for payment %s", paymentID), err)
	}
	return sum, nil
}

// SavePayment inserts a new payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	model := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.PaymentID,
		model.CommunityID,
		model.UnitID,
		model.Amount,
		model.ReceivedDate,
		model.Method,
		model.Reference,
		model.State,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save payment %s", model.PaymentID), err)
	}
	return nil
}

// ApplyAllocations executes an allocation plan atomically. The target
// accounts are locked FOR UPDATE in account-ID order to avoid deadlocks
// between concurrent payments, every planned amount is re-verified against
// the locked balance, and only then are the application rows written and the
// balances decremented.
func (r *PgxPaymentRepository) ApplyAllocations(ctx context.Context, payment domain.Payment, plan []domain.AllocationPlan, actorID string, now time.Time) ([]domain.PaymentApplication, []domain.UnitAccount, error) {
	if len(plan) == 0 {
		return nil, nil, fmt.Errorf("%w: empty allocation plan", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockOrder := make([]domain.AllocationPlan, len(plan))
	copy(lockOrder, plan)
	sort.Slice(lockOrder, func(i, j int) bool { return lockOrder[i].UnitAccountID < lockOrder[j].UnitAccountID })

	lockQuery := `SELECT ` + unitAccountColumns + ` FROM unit_accounts WHERE unit_account_id = $1 FOR UPDATE;`
	locked := make(map[string]*models.UnitAccount, len(lockOrder))
	for _, item := range lockOrder {
		model, err := scanUnitAccount(tx.QueryRow(ctx, lockQuery, item.UnitAccountID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("unit account %s not found", item.UnitAccountID))
			}
			return nil, nil, apperrors.NewAppError(500, fmt.Sprintf("failed to lock account %s", item.UnitAccountID), err)
		}
		if item.Amount.GreaterThan(model.Balance) {
			return nil, nil, fmt.Errorf("%w: %s exceeds balance %s of account %s",
				apperrors.ErrOverApplication, item.Amount.String(), model.Balance.String(), item.UnitAccountID)
		}
		locked[item.UnitAccountID] = model
	}

	updateAccount := `
		UPDATE unit_accounts
		SET balance = $1, state = $2, version = $3, last_updated_at = $4, last_updated_by = $5
		WHERE unit_account_id = $6;
	`
	insertApplication := `
		INSERT INTO payment_applications (application_id, payment_id, unit_account_id, amount_applied, priority, account_version, state, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	applications := make([]domain.PaymentApplication, 0, len(plan))
	updatedAccounts := make([]domain.UnitAccount, 0, len(plan))
	for _, item := range plan {
		model := locked[item.UnitAccountID]
		newBalance := model.Balance.Sub(item.Amount)
		newState := domain.AccountPartiallyPaid
		if newBalance.IsZero() {
			newState = domain.AccountPaid
		}
		newVersion := model.Version + 1

		if _, err := tx.Exec(ctx, updateAccount, newBalance, string(newState), newVersion, now, actorID, item.UnitAccountID); err != nil {
			return nil, nil, apperrors.NewAppError(500, fmt.Sprintf("failed to update account %s", item.UnitAccountID), err)
		}

		application := domain.PaymentApplication{
			ApplicationID:  uuid.NewString(),
			PaymentID:      payment.PaymentID,
			UnitAccountID:  item.UnitAccountID,
			AmountApplied:  item.Amount,
			Priority:       item.Priority,
			AccountVersion: newVersion,
			State:          domain.ApplicationActive,
			CreatedAt:      now,
			CreatedBy:      actorID,
		}
		applicationModel := mapping.ToModelPaymentApplication(application)
		if _, err := tx.Exec(ctx, insertApplication,
			applicationModel.ApplicationID,
			applicationModel.PaymentID,
			applicationModel.UnitAccountID,
			applicationModel.AmountApplied,
			applicationModel.Priority,
			applicationModel.AccountVersion,
			applicationModel.State,
			applicationModel.CreatedAt,
			applicationModel.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, fmt.Sprintf("failed to insert application for account %s", item.UnitAccountID), err)
		}

		model.Balance = newBalance
		model.State = string(newState)
		model.Version = newVersion
		applications = append(applications, application)
		updatedAccounts = append(updatedAccounts, mapping.ToDomainUnitAccount(*model))
	}

	markApplied := `
		UPDATE payments
		SET state = $1, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $4 AND state = $5;
	`
	tag, err := tx.Exec(ctx, markApplied, string(domain.PaymentApplied), now, actorID, payment.PaymentID, string(domain.PaymentPending))
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, fmt.Sprintf("failed to mark payment %s applied", payment.PaymentID), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, fmt.Errorf("payment %s is no longer PENDING: %w", payment.PaymentID, apperrors.ErrConcurrencyConflict)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return applications, updatedAccounts, nil
}

// ReverseApplications undoes all active applications of a payment in one
// transaction. Each touched account must still sit at the version recorded
// when the allocation was written; anything later aborts the whole reversal.
func (r *PgxPaymentRepository) ReverseApplications(ctx context.Context, paymentID string, actorID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	listQuery := `
		SELECT application_id, unit_account_id, amount_applied, account_version
		FROM payment_applications
		WHERE payment_id = $1 AND state = $2
		ORDER BY unit_account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, listQuery, paymentID, string(domain.ApplicationActive))
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to list applications for payment %s", paymentID), err)
	}
	type activeApplication struct {
		applicationID  string
		unitAccountID  string
		amountApplied  decimal.Decimal
		accountVersion int64
	}
	active := []activeApplication{}
	for rows.Next() {
		var a activeApplication
		if err := rows.Scan(&a.applicationID, &a.unitAccountID, &a.amountApplied, &a.accountVersion); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan application row", err)
		}
		active = append(active, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating application rows", err)
	}
	if len(active) == 0 {
		return fmt.Errorf("payment %s has no active applications: %w", paymentID, apperrors.ErrInvalidState)
	}

	// Restoring the balance may push the account back past its due date; the
	// state is recomputed from the restored balance and the emission due date.
	restoreQuery := `
		UPDATE unit_accounts a
		SET balance = a.balance + $1,
		    state = CASE
		        WHEN a.balance + $1 >= a.original_amount + a.accrued_interest THEN
		            CASE WHEN e.due_date < $2 THEN $3 ELSE $4 END
		        ELSE $5
		    END,
		    version = a.version + 1,
		    last_updated_at = $2,
		    last_updated_by = $6
		FROM emissions e
		WHERE e.emission_id = a.emission_id
		  AND a.unit_account_id = $7 AND a.version = $8;
	`
	flagReversed := `UPDATE payment_applications SET state = $1 WHERE application_id = $2;`
	for _, a := range active {
		tag, err := tx.Exec(ctx, restoreQuery,
			a.amountApplied,
			now,
			string(domain.AccountOverdue),
			string(domain.AccountOpen),
			string(domain.AccountPartiallyPaid),
			actorID,
			a.unitAccountID,
			a.accountVersion,
		)
		if err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to restore account %s", a.unitAccountID), err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("account %s was modified after allocation: %w", a.unitAccountID, apperrors.ErrConcurrencyConflict)
		}
		if _, err := tx.Exec(ctx, flagReversed, string(domain.ApplicationReversed), a.applicationID); err != nil {
			return apperrors.NewAppError(500, fmt.Sprintf("failed to flag application %s reversed", a.applicationID), err)
		}
	}

	markPending := `
		UPDATE payments
		SET state = $1, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $4 AND state = $5;
	`
	tag, err := tx.Exec(ctx, markPending, string(domain.PaymentPending), now, actorID, paymentID, string(domain.PaymentApplied))
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to mark payment %s pending", paymentID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s is no longer APPLIED: %w", paymentID, apperrors.ErrConcurrencyConflict)
	}

	return r.Commit(ctx, tx)
}
