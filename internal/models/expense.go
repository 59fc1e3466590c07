package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the DB representation of an expense row.
type Expense struct {
	ExpenseID           string
	CommunityID         string
	CategoryID          string
	Amount              decimal.Decimal
	IncurredDate        time.Time
	Description         string
	State               string
	ApprovedBy          *string
	VoidedAfterEmission bool
	AuditFields
}

// ExpenseHistoryEntry is the DB representation of an audit-trail row.
type ExpenseHistoryEntry struct {
	EntryID   string
	ExpenseID string
	Action    string
	ActorID   string
	Note      string
	Timestamp time.Time
}

// ExpenseCategory is the DB representation of a category row.
type ExpenseCategory struct {
	CategoryID  string
	CommunityID *string
	Name        string
	AuditFields
}
