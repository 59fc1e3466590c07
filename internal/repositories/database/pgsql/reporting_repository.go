package pgsql

import (
	"context"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting rows.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

const accountRowQuery = `
	SELECT u.unit_id, u.label, e.emission_id, e.period, e.due_date, a.original_amount, a.accrued_interest, a.balance, a.state
	FROM unit_accounts a
	JOIN units u ON u.unit_id = a.unit_id
	JOIN emissions e ON e.emission_id = a.emission_id
`

func (r *PgxReportingRepository) queryAccountRows(ctx context.Context, query string, args ...any) ([]domain.AccountReportRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list account report rows", err)
	}
	defer rows.Close()

	reportRows := []domain.AccountReportRow{}
	for rows.Next() {
		var row domain.AccountReportRow
		if err := rows.Scan(
			&row.UnitID,
			&row.UnitLabel,
			&row.EmissionID,
			&row.Period,
			&row.DueDate,
			&row.OriginalAmount,
			&row.AccruedInterest,
			&row.Balance,
			&row.State,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account report row", err)
		}
		reportRows = append(reportRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account report rows", err)
	}
	return reportRows, nil
}

// ListAccountRowsByCommunity returns every unit account of a community joined
// with its unit and emission.
func (r *PgxReportingRepository) ListAccountRowsByCommunity(ctx context.Context, communityID string) ([]domain.AccountReportRow, error) {
	query := accountRowQuery + `
		WHERE u.community_id = $1
		ORDER BY u.label, e.period;
	`
	return r.queryAccountRows(ctx, query, communityID)
}

// ListAccountRowsByUnit returns every unit account of a unit joined with its
// emission.
func (r *PgxReportingRepository) ListAccountRowsByUnit(ctx context.Context, unitID string) ([]domain.AccountReportRow, error) {
	query := accountRowQuery + `
		WHERE u.unit_id = $1
		ORDER BY e.period;
	`
	return r.queryAccountRows(ctx, query, unitID)
}

const paymentRowQuery = `
	SELECT p.payment_id, pa.unit_account_id, p.received_date, p.method, p.reference, pa.amount_applied
	FROM payment_applications pa
	JOIN payments p ON p.payment_id = pa.payment_id
	JOIN unit_accounts a ON a.unit_account_id = pa.unit_account_id
	JOIN units u ON u.unit_id = a.unit_id
`

func (r *PgxReportingRepository) queryPaymentRows(ctx context.Context, query string, args ...any) ([]domain.PaymentReportRow, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payment report rows", err)
	}
	defer rows.Close()

	reportRows := []domain.PaymentReportRow{}
	for rows.Next() {
		var row domain.PaymentReportRow
		if err := rows.Scan(
			&row.PaymentID,
			&row.UnitAccountID,
			&row.ReceivedDate,
			&row.Method,
			&row.Reference,
			&row.AmountApplied,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment report row", err)
		}
		reportRows = append(reportRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment report rows", err)
	}
	return reportRows, nil
}

// ListPaymentRowsByUnit returns the active payment applications touching the
// unit's accounts.
func (r *PgxReportingRepository) ListPaymentRowsByUnit(ctx context.Context, unitID string) ([]domain.PaymentReportRow, error) {
	query := paymentRowQuery + `
		WHERE u.unit_id = $1 AND pa.state = $2
		ORDER BY p.received_date, pa.application_id;
	`
	return r.queryPaymentRows(ctx, query, unitID, string(domain.ApplicationActive))
}

// ListPaymentRowsByCommunity returns the active payment applications for all
// units of a community.
func (r *PgxReportingRepository) ListPaymentRowsByCommunity(ctx context.Context, communityID string) ([]domain.PaymentReportRow, error) {
	query := paymentRowQuery + `
		WHERE u.community_id = $1 AND pa.state = $2
		ORDER BY p.received_date, pa.application_id;
	`
	return r.queryPaymentRows(ctx, query, communityID, string(domain.ApplicationActive))
}
