package repositories

import (
	"context"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitAccountReader defines read operations for unit account data
type UnitAccountReader interface {
	// FindUnitAccountByID retrieves a unit account.
	FindUnitAccountByID(ctx context.Context, unitAccountID string) (*domain.UnitAccount, error)

	// FindDetailsByAccountID retrieves the breakdown rows of a unit account.
	FindDetailsByAccountID(ctx context.Context, unitAccountID string) ([]domain.UnitAccountDetail, error)

	// ListAccountsByEmission retrieves all unit accounts of an emission.
	ListAccountsByEmission(ctx context.Context, emissionID string) ([]domain.UnitAccount, error)

	// ListAccountsByUnit retrieves all unit accounts of a unit with their due
	// dates, newest emission first.
	ListAccountsByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error)

	// ListOutstandingByUnit retrieves the unit's open/partially paid/overdue
	// accounts with their due dates, in no guaranteed order.
	ListOutstandingByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error)

	// ListAccrualCandidates retrieves outstanding accounts of a community
	// whose emission due date lies before the cutoff.
	ListAccrualCandidates(ctx context.Context, communityID string, dueBefore time.Time) ([]domain.OutstandingAccount, error)
}

// UnitAccountWriter defines write operations for unit account data
type UnitAccountWriter interface {
	// ApplyAccrual adds interestDelta to both accrued interest and balance,
	// advances the accrual anchor, sets the state and bumps the version. The
	// update is guarded on expectedVersion; a mismatch surfaces as
	// ErrConcurrencyConflict with no write.
	ApplyAccrual(ctx context.Context, unitAccountID string, interestDelta decimal.Decimal, newState domain.UnitAccountState, lastAccrualAt time.Time, expectedVersion int64, now time.Time) error
}

// UnitAccountRepositoryFacade combines all unit-account repository interfaces
type UnitAccountRepositoryFacade interface {
	UnitAccountReader
	UnitAccountWriter
}
