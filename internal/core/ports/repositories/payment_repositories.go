package repositories

import (
	"context"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByCommunity retrieves a paginated list of payments.
	ListPaymentsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Payment, error)

	// FindApplicationsByPaymentID retrieves all allocation rows of a payment,
	// active and reversed.
	FindApplicationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentApplication, error)

	// SumActiveApplications returns the total actively applied amount of a payment.
	SumActiveApplications(ctx context.Context, paymentID string) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a new payment in PENDING state.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// ApplyAllocations executes an allocation plan in a single transaction:
	// locks the target unit accounts FOR UPDATE in deterministic order,
	// re-verifies each planned amount against the locked balance
	// (ErrOverApplication on violation, nothing written), inserts the
	// application rows, decrements balances, updates account states and
	// versions, and marks the payment APPLIED. Returns the written
	// applications and the updated accounts.
	ApplyAllocations(ctx context.Context, payment domain.Payment, plan []domain.AllocationPlan, actorID string, now time.Time) ([]domain.PaymentApplication, []domain.UnitAccount, error)

	// ReverseApplications undoes all active applications of a payment in a
	// single transaction: restores balances and states, flags the rows
	// REVERSED and sets the payment back to PENDING. Any touched account
	// whose version moved past the one recorded at application time aborts
	// with ErrConcurrencyConflict.
	ReverseApplications(ctx context.Context, paymentID string, actorID string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
