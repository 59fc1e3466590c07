package dto

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the payload for creating an expense.
type CreateExpenseRequest struct {
	CategoryID   string          `json:"categoryID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	IncurredDate time.Time       `json:"incurredDate" binding:"required"`
	Description  string          `json:"description" binding:"required"`
}

// RejectExpenseRequest carries the mandatory rejection reason.
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidExpenseRequest carries the mandatory void reason.
type VoidExpenseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListExpensesParams holds filters for listing expenses.
type ListExpensesParams struct {
	State  *domain.ExpenseState
	Limit  int
	Offset int
}

// CreateCategoryRequest defines the payload for creating an expense category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	// Global categories are visible to every community.
	Global bool `json:"global"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID           string          `json:"expenseID"`
	CommunityID         string          `json:"communityID"`
	CategoryID          string          `json:"categoryID"`
	Amount              decimal.Decimal `json:"amount"`
	IncurredDate        time.Time       `json:"incurredDate"`
	Description         string          `json:"description"`
	State               string          `json:"state"`
	ApprovedBy          *string         `json:"approvedBy,omitempty"`
	VoidedAfterEmission bool            `json:"voidedAfterEmission,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
}

// ExpenseHistoryResponse defines one audit-trail entry.
type ExpenseHistoryResponse struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actorID"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string  `json:"categoryID"`
	CommunityID *string `json:"communityID,omitempty"`
	Name        string  `json:"name"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:           e.ExpenseID,
		CommunityID:         e.CommunityID,
		CategoryID:          e.CategoryID,
		Amount:              e.Amount,
		IncurredDate:        e.IncurredDate,
		Description:         e.Description,
		State:               string(e.State),
		ApprovedBy:          e.ApprovedBy,
		VoidedAfterEmission: e.VoidedAfterEmission,
		CreatedAt:           e.CreatedAt,
		CreatedBy:           e.CreatedBy,
	}
}

// ToExpenseResponses converts a slice of domain.Expense.
func ToExpenseResponses(es []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(es))
	for i := range es {
		responses[i] = ToExpenseResponse(&es[i])
	}
	return responses
}

// ToExpenseHistoryResponses converts audit-trail entries.
func ToExpenseHistoryResponses(entries []domain.ExpenseHistoryEntry) []ExpenseHistoryResponse {
	responses := make([]ExpenseHistoryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ExpenseHistoryResponse{
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			Note:      e.Note,
			Timestamp: e.Timestamp,
		}
	}
	return responses
}

// ToCategoryResponse converts a domain.ExpenseCategory.
func ToCategoryResponse(c *domain.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		CommunityID: c.CommunityID,
		Name:        c.Name,
	}
}

// ToCategoryResponses converts a slice of domain.ExpenseCategory.
func ToCategoryResponses(cs []domain.ExpenseCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(cs))
	for i := range cs {
		responses[i] = ToCategoryResponse(&cs[i])
	}
	return responses
}
