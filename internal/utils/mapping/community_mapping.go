package mapping

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/models"
)

// ToModelCommunity converts a domain Community to a model Community
func ToModelCommunity(d domain.Community) models.Community {
	return models.Community{
		CommunityID:  d.CommunityID,
		Name:         d.Name,
		CurrencyCode: d.CurrencyCode,
		Timezone:     d.Timezone,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCommunity converts a model Community to a domain Community
func ToDomainCommunity(m models.Community) domain.Community {
	return domain.Community{
		CommunityID:  m.CommunityID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		Timezone:     m.Timezone,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBillingParameters converts domain billing parameters to the model form
func ToModelBillingParameters(d domain.BillingParameters) models.BillingParameters {
	return models.BillingParameters{
		CommunityID:        d.CommunityID,
		GraceDays:          d.GraceDays,
		LateFeeRate:        d.LateFeeRate,
		InterestMethod:     string(d.InterestMethod),
		InterestBase:       string(d.InterestBase),
		MaxMonthlyInterest: d.MaxMonthlyInterest,
		RoundingRule:       string(d.RoundingRule),
		SkipZeroAccounts:   d.SkipZeroAccounts,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBillingParameters converts model billing parameters to the domain form
func ToDomainBillingParameters(m models.BillingParameters) domain.BillingParameters {
	return domain.BillingParameters{
		CommunityID:        m.CommunityID,
		GraceDays:          m.GraceDays,
		LateFeeRate:        m.LateFeeRate,
		InterestMethod:     domain.InterestMethod(m.InterestMethod),
		InterestBase:       domain.InterestBase(m.InterestBase),
		MaxMonthlyInterest: m.MaxMonthlyInterest,
		RoundingRule:       domain.RoundingRule(m.RoundingRule),
		SkipZeroAccounts:   m.SkipZeroAccounts,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUnit converts a domain Unit to a model Unit
func ToModelUnit(d domain.Unit) models.Unit {
	return models.Unit{
		UnitID:               d.UnitID,
		CommunityID:          d.CommunityID,
		Label:                d.Label,
		ProrationCoefficient: d.ProrationCoefficient,
		IsActive:             d.IsActive,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUnit converts a model Unit to a domain Unit
func ToDomainUnit(m models.Unit) domain.Unit {
	return domain.Unit{
		UnitID:               m.UnitID,
		CommunityID:          m.CommunityID,
		Label:                m.Label,
		ProrationCoefficient: m.ProrationCoefficient,
		IsActive:             m.IsActive,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
