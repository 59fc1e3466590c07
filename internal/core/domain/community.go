package domain

import (
	"github.com/shopspring/decimal"
)

// InterestMethod selects how late-payment interest compounds over elapsed periods.
type InterestMethod string

const (
	InterestSimple   InterestMethod = "SIMPLE"
	InterestCompound InterestMethod = "COMPOUND"
)

// InterestBase selects the principal the monthly rate is applied to.
type InterestBase string

const (
	// BaseTotalDebt accrues on the full original amount regardless of partial payment.
	BaseTotalDebt InterestBase = "TOTAL_DEBT"
	// BaseOverdueInstallment accrues on the remaining balance.
	BaseOverdueInstallment InterestBase = "OVERDUE_INSTALLMENT"
)

// RoundingRule controls how prorated shares are rounded to the currency exponent.
// NEAREST rounds half away from zero; UP and DOWN round away from and toward
// zero respectively. Whatever the rule, the proration remainder step keeps the
// sum of shares exact.
type RoundingRule string

const (
	RoundNearest RoundingRule = "NEAREST"
	RoundUp      RoundingRule = "UP"
	RoundDown    RoundingRule = "DOWN"
)

// Community is the tenant boundary. It owns its currency, timezone, units,
// expenses, emissions and billing parameters.
type Community struct {
	CommunityID  string `json:"communityID"` // Primary Key (UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Single currency per community
	Timezone     string `json:"timezone"`     // IANA name, e.g. America/Santiago
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// BillingParameters is the per-community billing configuration. One-to-one
// with Community; updated in place, never deleted.
type BillingParameters struct {
	CommunityID        string          `json:"communityID"`
	GraceDays          int             `json:"graceDays"`          // Days past due before interest starts
	LateFeeRate        decimal.Decimal `json:"lateFeeRate"`        // Monthly rate, e.g. 0.015 for 1.5%
	InterestMethod     InterestMethod  `json:"interestMethod"`     // SIMPLE or COMPOUND
	InterestBase       InterestBase    `json:"interestBase"`       // TOTAL_DEBT or OVERDUE_INSTALLMENT
	MaxMonthlyInterest decimal.Decimal `json:"maxMonthlyInterest"` // Per-period cap; zero or negative means uncapped
	RoundingRule       RoundingRule    `json:"roundingRule"`
	SkipZeroAccounts   bool            `json:"skipZeroAccounts"` // Skip unit accounts with a zero total share on issue
	AuditFields
}
