package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentState is the lifecycle state of an incoming payment.
type PaymentState string

const (
	PaymentPending  PaymentState = "PENDING"
	PaymentApplied  PaymentState = "APPLIED"
	PaymentReversed PaymentState = "REVERSED"
)

// PaymentApplicationState marks allocation rows; reversed rows are flagged,
// never deleted.
type PaymentApplicationState string

const (
	ApplicationActive   PaymentApplicationState = "ACTIVE"
	ApplicationReversed PaymentApplicationState = "REVERSED"
)

// Payment is an incoming receipt. UnitID is nil for community-level bulk
// receipts whose allocation targets are chosen explicitly.
type Payment struct {
	PaymentID    string          `json:"paymentID"` // Primary Key (UUID)
	CommunityID  string          `json:"communityID"`
	UnitID       *string         `json:"unitID,omitempty"`
	Amount       decimal.Decimal `json:"amount"` // Always positive
	ReceivedDate time.Time       `json:"receivedDate"`
	Method       string          `json:"method"` // e.g. TRANSFER, CASH, CHECK
	Reference    string          `json:"reference"`
	State        PaymentState    `json:"state"`
	AuditFields
}

// PaymentApplication allocates part of a payment to one unit account.
// AccountVersion records the unit account's version right after the
// allocation; a reversal is only allowed while the account still sits at
// that version.
type PaymentApplication struct {
	ApplicationID  string                  `json:"applicationID"`
	PaymentID      string                  `json:"paymentID"`
	UnitAccountID  string                  `json:"unitAccountID"`
	AmountApplied  decimal.Decimal         `json:"amountApplied"`
	Priority       int                     `json:"priority"` // Waterfall position, 1-based
	AccountVersion int64                   `json:"accountVersion"`
	State          PaymentApplicationState `json:"state"`
	CreatedAt      time.Time               `json:"createdAt"`
	CreatedBy      string                  `json:"createdBy"`
}
