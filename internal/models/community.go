package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Community is the DB representation of a community row.
type Community struct {
	CommunityID  string
	Name         string
	CurrencyCode string
	Timezone     string
	IsActive     bool
	AuditFields
}

// BillingParameters is the DB representation of billing configuration.
type BillingParameters struct {
	CommunityID        string
	GraceDays          int
	LateFeeRate        decimal.Decimal
	InterestMethod     string
	InterestBase       string
	MaxMonthlyInterest decimal.Decimal
	RoundingRule       string
	SkipZeroAccounts   bool
	AuditFields
}

// AuditFields holds the audit columns shared by most tables.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
