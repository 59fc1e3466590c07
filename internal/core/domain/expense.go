package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseState is the lifecycle state of a committed expense.
type ExpenseState string

const (
	ExpenseDraft           ExpenseState = "DRAFT"
	ExpensePendingApproval ExpenseState = "PENDING_APPROVAL"
	ExpenseApproved        ExpenseState = "APPROVED"
	ExpenseRejected        ExpenseState = "REJECTED"
	ExpenseIncluded        ExpenseState = "INCLUDED_IN_EMISSION"
	ExpensePaid            ExpenseState = "PAID"
	ExpenseVoided          ExpenseState = "VOIDED"
)

// expenseTransitions lists the legal state transitions. PAID is derived from
// payment activity and REJECTED/VOIDED are terminal.
var expenseTransitions = map[ExpenseState][]ExpenseState{
	ExpenseDraft:           {ExpensePendingApproval, ExpenseVoided},
	ExpensePendingApproval: {ExpenseApproved, ExpenseRejected, ExpenseVoided},
	ExpenseApproved:        {ExpenseIncluded, ExpenseVoided},
	ExpenseIncluded:        {ExpensePaid, ExpenseVoided},
}

// CanTransition reports whether moving from one expense state to another is legal.
func CanTransition(from, to ExpenseState) bool {
	for _, allowed := range expenseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state admits no further transitions.
func (s ExpenseState) IsTerminal() bool {
	return len(expenseTransitions[s]) == 0
}

// ExpenseAction names the audit-trail action recorded on each transition.
type ExpenseAction string

const (
	ActionCreated  ExpenseAction = "CREATED"
	ActionSubmit   ExpenseAction = "SUBMITTED"
	ActionApprove  ExpenseAction = "APPROVED"
	ActionReject   ExpenseAction = "REJECTED"
	ActionInclude  ExpenseAction = "INCLUDED_IN_EMISSION"
	ActionMarkPaid ExpenseAction = "MARKED_PAID"
	ActionVoid     ExpenseAction = "VOIDED"
)

// ExpenseCategory classifies expenses. Community-scoped when CommunityID is
// set, global otherwise. Immutable once referenced by an expense.
type ExpenseCategory struct {
	CategoryID  string  `json:"categoryID"`
	CommunityID *string `json:"communityID,omitempty"` // nil means global
	Name        string  `json:"name"`
	AuditFields
}

// Expense is a single committed expense owned by a community.
type Expense struct {
	ExpenseID    string          `json:"expenseID"` // Primary Key (UUID)
	CommunityID  string          `json:"communityID"`
	CategoryID   string          `json:"categoryID"`
	Amount       decimal.Decimal `json:"amount"` // Always positive
	IncurredDate time.Time       `json:"incurredDate"`
	Description  string          `json:"description"`
	State        ExpenseState    `json:"state"`
	ApprovedBy   *string         `json:"approvedBy,omitempty"`
	// VoidedAfterEmission flags an expense voided after it was folded into an
	// issued emission; the materialized unit accounts are not shrunk.
	VoidedAfterEmission bool `json:"voidedAfterEmission"`
	AuditFields
}

// ExpenseHistoryEntry is one append-only audit record per expense transition.
type ExpenseHistoryEntry struct {
	EntryID   string        `json:"entryID"`
	ExpenseID string        `json:"expenseID"`
	Action    ExpenseAction `json:"action"`
	ActorID   string        `json:"actorID"`
	Note      string        `json:"note"`
	Timestamp time.Time     `json:"timestamp"`
}
