package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmissionState is the lifecycle state of a billing run.
type EmissionState string

const (
	EmissionDraft  EmissionState = "DRAFT"
	EmissionIssued EmissionState = "ISSUED"
	EmissionVoided EmissionState = "VOIDED"
)

// ProrationRule selects how an expense is split across units.
type ProrationRule string

const (
	ByCoefficient ProrationRule = "BY_COEFFICIENT"
	EqualSplit    ProrationRule = "EQUAL_SPLIT"
	FixedPerUnit  ProrationRule = "FIXED_PER_UNIT"
)

// Emission is one billing run for a community and period. At most one issued
// emission may exist per (community, period); issued emissions are immutable
// except for interest accrual and payment effects on their unit accounts.
type Emission struct {
	EmissionID  string         `json:"emissionID"` // Primary Key (UUID)
	CommunityID string         `json:"communityID"`
	Period      string         `json:"period"` // YYYY-MM
	DueDate     time.Time      `json:"dueDate"`
	State       EmissionState  `json:"state"`
	Lines       []EmissionLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// EmissionLine folds one expense into an emission.
type EmissionLine struct {
	LineID           string          `json:"lineID"`
	EmissionID       string          `json:"emissionID"`
	ExpenseID        string          `json:"expenseID"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	ProrationRule    ProrationRule   `json:"prorationRule"`
	FixedAmountPerUnit decimal.Decimal `json:"fixedAmountPerUnit"` // Only for FIXED_PER_UNIT
}
