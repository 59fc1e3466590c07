package billing

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MonthsBetween returns the number of whole months elapsed from 'from' to
// 'to'. A month is complete once the same day-of-month is reached (Jan 15 to
// Feb 15 is one month). Returns 0 when 'to' is not after 'from'.
func MonthsBetween(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// ComputeInterest returns the late-payment interest for the given number of
// whole monthly periods, rounded to the currency exponent.
//
// SIMPLE charges base*rate each period; COMPOUND adds each period's interest
// to the base before the next. Each period's interest is capped at
// capPerMonth when the cap is positive; compounding uses the capped amount so
// the charged figure and the carried base stay consistent.
func ComputeInterest(base, monthlyRate decimal.Decimal, method domain.InterestMethod, periods int, capPerMonth decimal.Decimal) decimal.Decimal {
	if periods <= 0 || base.LessThanOrEqual(decimal.Zero) || monthlyRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	total := decimal.Zero
	current := base
	for i := 0; i < periods; i++ {
		interest := current.Mul(monthlyRate)
		if capPerMonth.IsPositive() && interest.GreaterThan(capPerMonth) {
			interest = capPerMonth
		}
		total = total.Add(interest)
		if method == domain.InterestCompound {
			current = current.Add(interest)
		}
	}
	return total.Round(2)
}
