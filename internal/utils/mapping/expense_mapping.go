package mapping

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:           d.ExpenseID,
		CommunityID:         d.CommunityID,
		CategoryID:          d.CategoryID,
		Amount:              d.Amount,
		IncurredDate:        d.IncurredDate,
		Description:         d.Description,
		State:               string(d.State),
		ApprovedBy:          d.ApprovedBy,
		VoidedAfterEmission: d.VoidedAfterEmission,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:           m.ExpenseID,
		CommunityID:         m.CommunityID,
		CategoryID:          m.CategoryID,
		Amount:              m.Amount,
		IncurredDate:        m.IncurredDate,
		Description:         m.Description,
		State:               domain.ExpenseState(m.State),
		ApprovedBy:          m.ApprovedBy,
		VoidedAfterEmission: m.VoidedAfterEmission,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts model expenses to domain expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	out := make([]domain.Expense, len(ms))
	for i, m := range ms {
		out[i] = ToDomainExpense(m)
	}
	return out
}

// ToModelExpenseHistoryEntry converts a domain history entry to the model form
func ToModelExpenseHistoryEntry(d domain.ExpenseHistoryEntry) models.ExpenseHistoryEntry {
	return models.ExpenseHistoryEntry{
		EntryID:   d.EntryID,
		ExpenseID: d.ExpenseID,
		Action:    string(d.Action),
		ActorID:   d.ActorID,
		Note:      d.Note,
		Timestamp: d.Timestamp,
	}
}

// ToDomainExpenseHistoryEntry converts a model history entry to the domain form
func ToDomainExpenseHistoryEntry(m models.ExpenseHistoryEntry) domain.ExpenseHistoryEntry {
	return domain.ExpenseHistoryEntry{
		EntryID:   m.EntryID,
		ExpenseID: m.ExpenseID,
		Action:    domain.ExpenseAction(m.Action),
		ActorID:   m.ActorID,
		Note:      m.Note,
		Timestamp: m.Timestamp,
	}
}

// ToModelExpenseCategory converts a domain category to the model form
func ToModelExpenseCategory(d domain.ExpenseCategory) models.ExpenseCategory {
	return models.ExpenseCategory{
		CategoryID:  d.CategoryID,
		CommunityID: d.CommunityID,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpenseCategory converts a model category to the domain form
func ToDomainExpenseCategory(m models.ExpenseCategory) domain.ExpenseCategory {
	return domain.ExpenseCategory{
		CategoryID:  m.CategoryID,
		CommunityID: m.CommunityID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
