package mapping

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/models"
)

// ToModelUnitAccount converts a domain UnitAccount to the model form
func ToModelUnitAccount(d domain.UnitAccount) models.UnitAccount {
	return models.UnitAccount{
		UnitAccountID:   d.UnitAccountID,
		UnitID:          d.UnitID,
		EmissionID:      d.EmissionID,
		OriginalAmount:  d.OriginalAmount,
		AccruedInterest: d.AccruedInterest,
		Balance:         d.Balance,
		State:           string(d.State),
		LastAccrualAt:   d.LastAccrualAt,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUnitAccount converts a model UnitAccount to the domain form
func ToDomainUnitAccount(m models.UnitAccount) domain.UnitAccount {
	return domain.UnitAccount{
		UnitAccountID:   m.UnitAccountID,
		UnitID:          m.UnitID,
		EmissionID:      m.EmissionID,
		OriginalAmount:  m.OriginalAmount,
		AccruedInterest: m.AccruedInterest,
		Balance:         m.Balance,
		State:           domain.UnitAccountState(m.State),
		LastAccrualAt:   m.LastAccrualAt,
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUnitAccountSlice converts model unit accounts to domain unit accounts
func ToDomainUnitAccountSlice(ms []models.UnitAccount) []domain.UnitAccount {
	out := make([]domain.UnitAccount, len(ms))
	for i, m := range ms {
		out[i] = ToDomainUnitAccount(m)
	}
	return out
}

// ToModelUnitAccountDetail converts a domain detail row to the model form
func ToModelUnitAccountDetail(d domain.UnitAccountDetail) models.UnitAccountDetail {
	return models.UnitAccountDetail{
		DetailID:      d.DetailID,
		UnitAccountID: d.UnitAccountID,
		ExpenseID:     d.ExpenseID,
		CategoryID:    d.CategoryID,
		Amount:        d.Amount,
	}
}

// ToDomainUnitAccountDetail converts a model detail row to the domain form
func ToDomainUnitAccountDetail(m models.UnitAccountDetail) domain.UnitAccountDetail {
	return domain.UnitAccountDetail{
		DetailID:      m.DetailID,
		UnitAccountID: m.UnitAccountID,
		ExpenseID:     m.ExpenseID,
		CategoryID:    m.CategoryID,
		Amount:        m.Amount,
	}
}
