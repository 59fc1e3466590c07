package billing

import (
	"fmt"
	"sort"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// currencyExponent is the number of decimal places money is rounded to.
const currencyExponent = 2

// UnitShare is the per-unit input to proration.
type UnitShare struct {
	UnitID      string
	Coefficient decimal.Decimal
}

// RoundAmount rounds a monetary value to the currency exponent per the rule.
// NEAREST rounds half away from zero.
func RoundAmount(d decimal.Decimal, rule domain.RoundingRule) decimal.Decimal {
	switch rule {
	case domain.RoundUp:
		return d.RoundUp(currencyExponent)
	case domain.RoundDown:
		return d.RoundDown(currencyExponent)
	default:
		return d.Round(currencyExponent)
	}
}

// ProrateAmount splits total across the given units following the proration
// rule. Raw shares are computed at full precision, rounded per the rounding
// rule, and the rounding remainder (positive or negative) is assigned to the
// unit with the largest raw share, ties broken by lowest unit ID. The returned
// shares always sum to total exactly.
func ProrateAmount(total decimal.Decimal, rule domain.ProrationRule, fixedPerUnit decimal.Decimal, units []UnitShare, rounding domain.RoundingRule) (map[string]decimal.Decimal, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount to prorate must be positive, got %s", apperrors.ErrValidation, total.String())
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no active units to prorate across", apperrors.ErrValidation)
	}

	// Deterministic processing order regardless of caller ordering.
	ordered := make([]UnitShare, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UnitID < ordered[j].UnitID })

	unitCount := decimal.NewFromInt(int64(len(ordered)))

	rawShares := make([]decimal.Decimal, len(ordered))
	switch rule {
	case domain.ByCoefficient:
		for i, u := range ordered {
			if u.Coefficient.IsNegative() {
				return nil, fmt.Errorf("%w: unit %s has a negative coefficient", apperrors.ErrValidation, u.UnitID)
			}
			rawShares[i] = total.Mul(u.Coefficient)
		}
	case domain.EqualSplit:
		perUnit := total.Div(unitCount)
		for i := range ordered {
			rawShares[i] = perUnit
		}
	case domain.FixedPerUnit:
		if !fixedPerUnit.Mul(unitCount).Equal(total) {
			return nil, fmt.Errorf("%w: fixed amount %s times %d units does not equal total %s",
				apperrors.ErrValidation, fixedPerUnit.String(), len(ordered), total.String())
		}
		for i := range ordered {
			rawShares[i] = fixedPerUnit
		}
	default:
		return nil, fmt.Errorf("%w: unknown proration rule %q", apperrors.ErrValidation, rule)
	}

	shares := make(map[string]decimal.Decimal, len(ordered))
	roundedSum := decimal.Zero
	for i, u := range ordered {
		rounded := RoundAmount(rawShares[i], rounding)
		shares[u.UnitID] = rounded
		roundedSum = roundedSum.Add(rounded)
	}

	remainder := total.Sub(roundedSum)
	if !remainder.IsZero() {
		// Largest raw share absorbs the remainder; ordered is sorted by unit
		// ID so a strict comparison keeps the lowest ID on ties.
		receiver := 0
		for i := 1; i < len(ordered); i++ {
			if rawShares[i].GreaterThan(rawShares[receiver]) {
				receiver = i
			}
		}
		id := ordered[receiver].UnitID
		shares[id] = shares[id].Add(remainder)
	}

	return shares, nil
}
