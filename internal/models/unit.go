package models

import "github.com/shopspring/decimal"

// Unit is the DB representation of a unit row.
type Unit struct {
	UnitID               string
	CommunityID          string
	Label                string
	ProrationCoefficient decimal.Decimal
	IsActive             bool
	AuditFields
}
