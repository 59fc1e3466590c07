package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitAccount is the DB representation of a unit's receivable for one emission.
type UnitAccount struct {
	UnitAccountID   string
	UnitID          string
	EmissionID      string
	OriginalAmount  decimal.Decimal
	AccruedInterest decimal.Decimal
	Balance         decimal.Decimal
	State           string
	LastAccrualAt   *time.Time
	Version         int64
	AuditFields
}

// UnitAccountDetail is the DB representation of a breakdown row.
type UnitAccountDetail struct {
	DetailID      string
	UnitAccountID string
	ExpenseID     string
	CategoryID    string
	Amount        decimal.Decimal
}
