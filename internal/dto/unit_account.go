package dto

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitAccountDetailResponse is one breakdown row tracing back to an expense.
type UnitAccountDetailResponse struct {
	ExpenseID  string          `json:"expenseID"`
	CategoryID string          `json:"categoryID"`
	Amount     decimal.Decimal `json:"amount"`
}

// UnitAccountResponse defines the data returned for a unit account.
type UnitAccountResponse struct {
	UnitAccountID   string                      `json:"unitAccountID"`
	UnitID          string                      `json:"unitID"`
	EmissionID      string                      `json:"emissionID"`
	OriginalAmount  decimal.Decimal             `json:"originalAmount"`
	AccruedInterest decimal.Decimal             `json:"accruedInterest"`
	Balance         decimal.Decimal             `json:"balance"`
	State           string                      `json:"state"`
	DueDate         *time.Time                  `json:"dueDate,omitempty"`
	LastAccrualAt   *time.Time                  `json:"lastAccrualAt,omitempty"`
	Details         []UnitAccountDetailResponse `json:"details,omitempty"`
}

// AccrualRunRequest defines the payload for triggering an accrual run.
type AccrualRunRequest struct {
	AsOfDate time.Time `json:"asOfDate" binding:"required"`
}

// AccrualRunResult summarizes one accrual batch run.
type AccrualRunResult struct {
	AsOfDate             time.Time `json:"asOfDate"`
	CommunitiesProcessed int       `json:"communitiesProcessed"`
	AccountsAccrued      int       `json:"accountsAccrued"`
}

// ToUnitAccountResponse converts a domain.UnitAccount with optional details.
func ToUnitAccountResponse(a *domain.UnitAccount, details []domain.UnitAccountDetail) UnitAccountResponse {
	detailResponses := make([]UnitAccountDetailResponse, len(details))
	for i, d := range details {
		detailResponses[i] = UnitAccountDetailResponse{
			ExpenseID:  d.ExpenseID,
			CategoryID: d.CategoryID,
			Amount:     d.Amount,
		}
	}
	return UnitAccountResponse{
		UnitAccountID:   a.UnitAccountID,
		UnitID:          a.UnitID,
		EmissionID:      a.EmissionID,
		OriginalAmount:  a.OriginalAmount,
		AccruedInterest: a.AccruedInterest,
		Balance:         a.Balance,
		State:           string(a.State),
		LastAccrualAt:   a.LastAccrualAt,
		Details:         detailResponses,
	}
}

// ToOutstandingAccountResponses converts accounts joined with due dates.
func ToOutstandingAccountResponses(accounts []domain.OutstandingAccount) []UnitAccountResponse {
	responses := make([]UnitAccountResponse, len(accounts))
	for i, a := range accounts {
		resp := ToUnitAccountResponse(&a.UnitAccount, nil)
		due := a.DueDate
		resp.DueDate = &due
		responses[i] = resp
	}
	return responses
}
