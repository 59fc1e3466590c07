package repositories

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
)

// ReportingRepositoryFacade provides the raw rows the read models are built
// from. Read models are computed in application code, not database views.
type ReportingRepositoryFacade interface {
	// ListAccountRowsByCommunity returns every unit account of a community
	// joined with its unit and emission.
	ListAccountRowsByCommunity(ctx context.Context, communityID string) ([]domain.AccountReportRow, error)

	// ListAccountRowsByUnit returns every unit account of a unit joined with
	// its emission.
	ListAccountRowsByUnit(ctx context.Context, unitID string) ([]domain.AccountReportRow, error)

	// ListPaymentRowsByUnit returns the active payment applications touching
	// the unit's accounts, joined with their payments.
	ListPaymentRowsByUnit(ctx context.Context, unitID string) ([]domain.PaymentReportRow, error)

	// ListPaymentRowsByCommunity returns the active payment applications for
	// all units of a community.
	ListPaymentRowsByCommunity(ctx context.Context, communityID string) ([]domain.PaymentReportRow, error)
}
