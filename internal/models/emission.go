package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Emission is the DB representation of a billing run row.
type Emission struct {
	EmissionID  string
	CommunityID string
	Period      string
	DueDate     time.Time
	State       string
	AuditFields
}

// EmissionLine is the DB representation of one expense folded into an emission.
type EmissionLine struct {
	LineID             string
	EmissionID         string
	ExpenseID          string
	TotalAmount        decimal.Decimal
	ProrationRule      string
	FixedAmountPerUnit decimal.Decimal
}
