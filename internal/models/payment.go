package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the DB representation of a payment row.
type Payment struct {
	PaymentID    string
	CommunityID  string
	UnitID       *string
	Amount       decimal.Decimal
	ReceivedDate time.Time
	Method       string
	Reference    string
	State        string
	AuditFields
}

// PaymentApplication is the DB representation of an allocation row.
type PaymentApplication struct {
	ApplicationID  string
	PaymentID      string
	UnitAccountID  string
	AmountApplied  decimal.Decimal
	Priority       int
	AccountVersion int64
	State          string
	CreatedAt      time.Time
	CreatedBy      string
}
