package dto

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the payload for registering a payment.
// UnitID is omitted for community-level bulk receipts, which must be applied
// with explicit targets.
type CreatePaymentRequest struct {
	UnitID       *string         `json:"unitID,omitempty"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ReceivedDate time.Time       `json:"receivedDate" binding:"required"`
	Method       string          `json:"method" binding:"required"`
	Reference    string          `json:"reference"`
}

// PaymentTargetRequest is one explicit allocation target.
type PaymentTargetRequest struct {
	UnitAccountID string          `json:"unitAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// ApplyPaymentRequest defines the payload for applying a payment. An empty
// target list selects the unit's outstanding accounts automatically in
// waterfall order.
type ApplyPaymentRequest struct {
	Targets []PaymentTargetRequest `json:"targets,omitempty" binding:"omitempty,dive"`
}

// PaymentApplicationResponse is one allocation row.
type PaymentApplicationResponse struct {
	UnitAccountID string          `json:"unitAccountID"`
	AmountApplied decimal.Decimal `json:"amountApplied"`
	Priority      int             `json:"priority"`
	State         string          `json:"state"`
}

// PaymentResponse defines the data returned for a payment, including the
// derived unapplied amount.
type PaymentResponse struct {
	PaymentID       string                       `json:"paymentID"`
	CommunityID     string                       `json:"communityID"`
	UnitID          *string                      `json:"unitID,omitempty"`
	Amount          decimal.Decimal              `json:"amount"`
	AppliedAmount   decimal.Decimal              `json:"appliedAmount"`
	UnappliedAmount decimal.Decimal              `json:"unappliedAmount"`
	ReceivedDate    time.Time                    `json:"receivedDate"`
	Method          string                       `json:"method"`
	Reference       string                       `json:"reference,omitempty"`
	State           string                       `json:"state"`
	Applications    []PaymentApplicationResponse `json:"applications,omitempty"`
}

// ToPaymentResponse converts a payment plus its allocation rows. Only active
// applications count toward the applied amount.
func ToPaymentResponse(p *domain.Payment, applications []domain.PaymentApplication) PaymentResponse {
	applied := decimal.Zero
	appResponses := make([]PaymentApplicationResponse, len(applications))
	for i, a := range applications {
		if a.State == domain.ApplicationActive {
			applied = applied.Add(a.AmountApplied)
		}
		appResponses[i] = PaymentApplicationResponse{
			UnitAccountID: a.UnitAccountID,
			AmountApplied: a.AmountApplied,
			Priority:      a.Priority,
			State:         string(a.State),
		}
	}
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		CommunityID:     p.CommunityID,
		UnitID:          p.UnitID,
		Amount:          p.Amount,
		AppliedAmount:   applied,
		UnappliedAmount: p.Amount.Sub(applied),
		ReceivedDate:    p.ReceivedDate,
		Method:          p.Method,
		Reference:       p.Reference,
		State:           string(p.State),
		Applications:    appResponses,
	}
}

// ToPaymentListResponses converts payments without allocation rows.
func ToPaymentListResponses(ps []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(ps))
	for i := range ps {
		responses[i] = ToPaymentResponse(&ps[i], nil)
	}
	return responses
}
