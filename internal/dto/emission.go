package dto

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EmissionLineRequest folds one approved expense into the emission.
type EmissionLineRequest struct {
	ExpenseID     string `json:"expenseID" binding:"required"`
	ProrationRule string `json:"prorationRule" binding:"required,oneof=BY_COEFFICIENT EQUAL_SPLIT FIXED_PER_UNIT"`
	// FixedAmountPerUnit is required for FIXED_PER_UNIT and must multiply out
	// to the expense amount.
	FixedAmountPerUnit *decimal.Decimal `json:"fixedAmountPerUnit,omitempty"`
}

// CreateEmissionRequest defines the payload for issuing a billing run.
type CreateEmissionRequest struct {
	Period  string                `json:"period" binding:"required"` // YYYY-MM
	DueDate time.Time             `json:"dueDate" binding:"required"`
	Lines   []EmissionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// EmissionLineResponse defines one line of an emission.
type EmissionLineResponse struct {
	LineID        string          `json:"lineID"`
	ExpenseID     string          `json:"expenseID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ProrationRule string          `json:"prorationRule"`
}

// EmissionResponse defines the data returned for an emission.
type EmissionResponse struct {
	EmissionID  string                 `json:"emissionID"`
	CommunityID string                 `json:"communityID"`
	Period      string                 `json:"period"`
	DueDate     time.Time              `json:"dueDate"`
	State       string                 `json:"state"`
	Lines       []EmissionLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
}

// ToEmissionResponse converts a domain.Emission to EmissionResponse.
func ToEmissionResponse(e *domain.Emission) EmissionResponse {
	lines := make([]EmissionLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = EmissionLineResponse{
			LineID:        l.LineID,
			ExpenseID:     l.ExpenseID,
			TotalAmount:   l.TotalAmount,
			ProrationRule: string(l.ProrationRule),
		}
	}
	return EmissionResponse{
		EmissionID:  e.EmissionID,
		CommunityID: e.CommunityID,
		Period:      e.Period,
		DueDate:     e.DueDate,
		State:       string(e.State),
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToEmissionResponses converts a slice of domain.Emission.
func ToEmissionResponses(es []domain.Emission) []EmissionResponse {
	responses := make([]EmissionResponse, len(es))
	for i := range es {
		responses[i] = ToEmissionResponse(&es[i])
	}
	return responses
}
