package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutstandingAccount pairs a unit account with the due date of its emission,
// which drives waterfall ordering and accrual eligibility.
type OutstandingAccount struct {
	UnitAccount
	DueDate time.Time `json:"dueDate"`
}

// AllocationPlan is one planned application of a payment to a unit account,
// computed before any row is written.
type AllocationPlan struct {
	UnitAccountID string
	Amount        decimal.Decimal
	Priority      int
}

// AccountReportRow is a unit account joined with its unit and emission,
// the raw input for read models.
type AccountReportRow struct {
	UnitID          string          `json:"unitID"`
	UnitLabel       string          `json:"unitLabel"`
	EmissionID      string          `json:"emissionID"`
	Period          string          `json:"period"`
	DueDate         time.Time       `json:"dueDate"`
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	AccruedInterest decimal.Decimal `json:"accruedInterest"`
	Balance         decimal.Decimal `json:"balance"`
	State           string          `json:"state"`
}

// PaymentReportRow is an active payment application joined with its payment.
type PaymentReportRow struct {
	PaymentID     string          `json:"paymentID"`
	UnitAccountID string          `json:"unitAccountID"`
	ReceivedDate  time.Time       `json:"receivedDate"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference"`
	AmountApplied decimal.Decimal `json:"amountApplied"`
}

// UnitDebtSummary aggregates one unit's receivables across all emissions.
type UnitDebtSummary struct {
	UnitID          string          `json:"unitID"`
	UnitLabel       string          `json:"unitLabel"`
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	AccruedInterest decimal.Decimal `json:"accruedInterest"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	Balance         decimal.Decimal `json:"balance"`
	OverdueAccounts int             `json:"overdueAccounts"`
}

// CommunityDebtSummary is the community-wide receivable read model.
type CommunityDebtSummary struct {
	CommunityID     string            `json:"communityID"`
	Units           []UnitDebtSummary `json:"units"`
	TotalOriginal   decimal.Decimal   `json:"totalOriginal"`
	TotalInterest   decimal.Decimal   `json:"totalInterest"`
	TotalPaid       decimal.Decimal   `json:"totalPaid"`
	TotalBalance    decimal.Decimal   `json:"totalBalance"`
	OverdueAccounts int               `json:"overdueAccounts"`
}

// StatementEntryKind distinguishes charges from payments on a statement.
type StatementEntryKind string

const (
	EntryCharge  StatementEntryKind = "CHARGE"
	EntryPayment StatementEntryKind = "PAYMENT"
)

// StatementEntry is one chronological line on a unit statement.
type StatementEntry struct {
	Kind           StatementEntryKind `json:"kind"`
	Date           time.Time          `json:"date"`
	Description    string             `json:"description"`
	Amount         decimal.Decimal    `json:"amount"` // Positive for charges, negative for payments
	RunningBalance decimal.Decimal    `json:"runningBalance"`
}

// UnitStatement is the per-unit chronological read model.
type UnitStatement struct {
	UnitID  string           `json:"unitID"`
	Entries []StatementEntry `json:"entries"`
	Balance decimal.Decimal  `json:"balance"`
}
