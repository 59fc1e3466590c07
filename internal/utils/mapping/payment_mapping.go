package mapping

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/models"
)

// ToModelPayment converts a domain Payment to the model form
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:    d.PaymentID,
		CommunityID:  d.CommunityID,
		UnitID:       d.UnitID,
		Amount:       d.Amount,
		ReceivedDate: d.ReceivedDate,
		Method:       d.Method,
		Reference:    d.Reference,
		State:        string(d.State),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to the domain form
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:    m.PaymentID,
		CommunityID:  m.CommunityID,
		UnitID:       m.UnitID,
		Amount:       m.Amount,
		ReceivedDate: m.ReceivedDate,
		Method:       m.Method,
		Reference:    m.Reference,
		State:        domain.PaymentState(m.State),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPaymentApplication converts a domain allocation row to the model form
func ToModelPaymentApplication(d domain.PaymentApplication) models.PaymentApplication {
	return models.PaymentApplication{
		ApplicationID:  d.ApplicationID,
		PaymentID:      d.PaymentID,
		UnitAccountID:  d.UnitAccountID,
		AmountApplied:  d.AmountApplied,
		Priority:       d.Priority,
		AccountVersion: d.AccountVersion,
		State:          string(d.State),
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainPaymentApplication converts a model allocation row to the domain form
func ToDomainPaymentApplication(m models.PaymentApplication) domain.PaymentApplication {
	return domain.PaymentApplication{
		ApplicationID:  m.ApplicationID,
		PaymentID:      m.PaymentID,
		UnitAccountID:  m.UnitAccountID,
		AmountApplied:  m.AmountApplied,
		Priority:       m.Priority,
		AccountVersion: m.AccountVersion,
		State:          domain.PaymentApplicationState(m.State),
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainPaymentApplicationSlice converts model allocation rows to domain rows
func ToDomainPaymentApplicationSlice(ms []models.PaymentApplication) []domain.PaymentApplication {
	out := make([]domain.PaymentApplication, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPaymentApplication(m)
	}
	return out
}
