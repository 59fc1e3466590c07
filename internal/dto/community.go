package dto

import (
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCommunityRequest defines the payload for creating a community.
type CreateCommunityRequest struct {
	Name         string `json:"name" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Timezone     string `json:"timezone" binding:"required"`
}

// UpdateBillingParametersRequest applies a partial update to billing
// configuration; nil fields are left unchanged.
type UpdateBillingParametersRequest struct {
	GraceDays          *int             `json:"graceDays,omitempty" binding:"omitempty,gte=0"`
	LateFeeRate        *decimal.Decimal `json:"lateFeeRate,omitempty"`
	InterestMethod     *string          `json:"interestMethod,omitempty" binding:"omitempty,oneof=SIMPLE COMPOUND"`
	InterestBase       *string          `json:"interestBase,omitempty" binding:"omitempty,oneof=TOTAL_DEBT OVERDUE_INSTALLMENT"`
	MaxMonthlyInterest *decimal.Decimal `json:"maxMonthlyInterest,omitempty"`
	RoundingRule       *string          `json:"roundingRule,omitempty" binding:"omitempty,oneof=NEAREST UP DOWN"`
	SkipZeroAccounts   *bool            `json:"skipZeroAccounts,omitempty"`
}

// CommunityResponse defines the data returned for a community.
type CommunityResponse struct {
	CommunityID  string    `json:"communityID"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currencyCode"`
	Timezone     string    `json:"timezone"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BillingParametersResponse defines the data returned for billing configuration.
type BillingParametersResponse struct {
	CommunityID        string          `json:"communityID"`
	GraceDays          int             `json:"graceDays"`
	LateFeeRate        decimal.Decimal `json:"lateFeeRate"`
	InterestMethod     string          `json:"interestMethod"`
	InterestBase       string          `json:"interestBase"`
	MaxMonthlyInterest decimal.Decimal `json:"maxMonthlyInterest"`
	RoundingRule       string          `json:"roundingRule"`
	SkipZeroAccounts   bool            `json:"skipZeroAccounts"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
}

// ToCommunityResponse converts a domain.Community to CommunityResponse.
func ToCommunityResponse(c *domain.Community) CommunityResponse {
	return CommunityResponse{
		CommunityID:  c.CommunityID,
		Name:         c.Name,
		CurrencyCode: c.CurrencyCode,
		Timezone:     c.Timezone,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
	}
}

// ToCommunityResponses converts a slice of domain.Community.
func ToCommunityResponses(cs []domain.Community) []CommunityResponse {
	responses := make([]CommunityResponse, len(cs))
	for i := range cs {
		responses[i] = ToCommunityResponse(&cs[i])
	}
	return responses
}

// ToBillingParametersResponse converts domain.BillingParameters.
func ToBillingParametersResponse(p *domain.BillingParameters) BillingParametersResponse {
	return BillingParametersResponse{
		CommunityID:        p.CommunityID,
		GraceDays:          p.GraceDays,
		LateFeeRate:        p.LateFeeRate,
		InterestMethod:     string(p.InterestMethod),
		InterestBase:       string(p.InterestBase),
		MaxMonthlyInterest: p.MaxMonthlyInterest,
		RoundingRule:       string(p.RoundingRule),
		SkipZeroAccounts:   p.SkipZeroAccounts,
		LastUpdatedAt:      p.LastUpdatedAt,
	}
}
