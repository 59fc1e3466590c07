package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitAccountState is the receivable state of a unit account.
type UnitAccountState string

const (
	AccountOpen          UnitAccountState = "OPEN"
	AccountPartiallyPaid UnitAccountState = "PARTIALLY_PAID"
	AccountPaid          UnitAccountState = "PAID"
	AccountOverdue       UnitAccountState = "OVERDUE"
)

// UnitAccount is one unit's receivable for one emission. It is created
// atomically when the emission is issued and never deleted; balance never
// goes below zero. Version increments on every mutation and serializes
// reversals against later operations.
type UnitAccount struct {
	UnitAccountID   string           `json:"unitAccountID"` // Primary Key (UUID)
	UnitID          string           `json:"unitID"`
	EmissionID      string           `json:"emissionID"`
	OriginalAmount  decimal.Decimal  `json:"originalAmount"`
	AccruedInterest decimal.Decimal  `json:"accruedInterest"` // Monotonically non-decreasing
	Balance         decimal.Decimal  `json:"balance"`         // originalAmount + accruedInterest - applied payments
	State           UnitAccountState `json:"state"`
	LastAccrualAt   *time.Time       `json:"lastAccrualAt,omitempty"` // Idempotency anchor for accrual
	Version         int64            `json:"version"`
	AuditFields
}

// Outstanding reports whether the account still carries debt.
func (a UnitAccount) Outstanding() bool {
	return a.State == AccountOpen || a.State == AccountPartiallyPaid || a.State == AccountOverdue
}

// UnitAccountDetail is an immutable breakdown row tracing a unit account share
// back to the source expense.
type UnitAccountDetail struct {
	DetailID      string          `json:"detailID"`
	UnitAccountID string          `json:"unitAccountID"`
	ExpenseID     string          `json:"expenseID"`
	CategoryID    string          `json:"categoryID"`
	Amount        decimal.Decimal `json:"amount"`
}
