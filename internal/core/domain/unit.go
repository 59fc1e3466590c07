package domain

import (
	"github.com/shopspring/decimal"
)

// Unit is an individual apartment/office/parking slot within a community.
// ProrationCoefficient (the "alicuota") is the unit's fixed share of common
// expenses; across all active units of a community the coefficients must sum
// to exactly 1, enforced whenever units are created or rebalanced.
type Unit struct {
	UnitID               string          `json:"unitID"` // Primary Key (UUID)
	CommunityID          string          `json:"communityID"`
	Label                string          `json:"label"` // Human label, e.g. "Apt 402"
	ProrationCoefficient decimal.Decimal `json:"prorationCoefficient"`
	IsActive             bool            `json:"isActive"`
	AuditFields
}
