package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// PaymentSvcFacade receives payments and allocates them across unit accounts.
type PaymentSvcFacade interface {
	// CreatePayment persists a new payment in PENDING state.
	CreatePayment(ctx context.Context, communityID string, req dto.CreatePaymentRequest, actorID string) (*domain.Payment, error)

	// GetPaymentByID retrieves a payment with its allocation rows and the
	// derived unapplied amount.
	GetPaymentByID(ctx context.Context, communityID string, paymentID string) (*dto.PaymentResponse, error)

	// ListPayments retrieves a paginated list of community payments.
	ListPayments(ctx context.Context, communityID string, limit int, offset int) ([]domain.Payment, error)

	// ApplyPayment allocates the payment across unit accounts. Without
	// explicit targets it walks the unit's outstanding accounts in waterfall
	// order (overdue first, then oldest due date, then account ID). With
	// targets it applies the requested amounts, rejecting any plan that
	// exceeds a balance or the payment amount before writing anything.
	ApplyPayment(ctx context.Context, communityID string, paymentID string, req dto.ApplyPaymentRequest, actorID string) (*dto.PaymentResponse, error)

	// ReverseApplication undoes all active allocations of a payment and sets
	// it back to PENDING. Fails with ErrConcurrencyConflict if any touched
	// account was modified after the allocation.
	ReverseApplication(ctx context.Context, communityID string, paymentID string, actorID string) (*dto.PaymentResponse, error)
}
