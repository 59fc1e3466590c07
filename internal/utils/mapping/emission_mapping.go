package mapping

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/models"
)

// ToModelEmission converts a domain Emission to a model Emission
func ToModelEmission(d domain.Emission) models.Emission {
	return models.Emission{
		EmissionID:  d.EmissionID,
		CommunityID: d.CommunityID,
		Period:      d.Period,
		DueDate:     d.DueDate,
		State:       string(d.State),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmission converts a model Emission to a domain Emission
func ToDomainEmission(m models.Emission) domain.Emission {
	return domain.Emission{
		EmissionID:  m.EmissionID,
		CommunityID: m.CommunityID,
		Period:      m.Period,
		DueDate:     m.DueDate,
		State:       domain.EmissionState(m.State),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEmissionLine converts a domain EmissionLine to the model form
func ToModelEmissionLine(d domain.EmissionLine) models.EmissionLine {
	return models.EmissionLine{
		LineID:             d.LineID,
		EmissionID:         d.EmissionID,
		ExpenseID:          d.ExpenseID,
		TotalAmount:        d.TotalAmount,
		ProrationRule:      string(d.ProrationRule),
		FixedAmountPerUnit: d.FixedAmountPerUnit,
	}
}

// ToDomainEmissionLine converts a model EmissionLine to the domain form
func ToDomainEmissionLine(m models.EmissionLine) domain.EmissionLine {
	return domain.EmissionLine{
		LineID:             m.LineID,
		EmissionID:         m.EmissionID,
		ExpenseID:          m.ExpenseID,
		TotalAmount:        m.TotalAmount,
		ProrationRule:      domain.ProrationRule(m.ProrationRule),
		FixedAmountPerUnit: m.FixedAmountPerUnit,
	}
}

// ToDomainEmissionLineSlice converts model emission lines to domain lines
func ToDomainEmissionLineSlice(ms []models.EmissionLine) []domain.EmissionLine {
	out := make([]domain.EmissionLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainEmissionLine(m)
	}
	return out
}
