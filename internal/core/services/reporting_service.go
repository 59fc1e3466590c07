package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ReportingService computes read models from the core entities in application
// code. Paid amounts are derived per account as original + interest - balance
// so the summaries stay consistent with allocations and reversals.
type ReportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	unitRepo      portsrepo.UnitRepositoryFacade
	communityRepo portsrepo.CommunityRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(rr portsrepo.ReportingRepositoryFacade, ur portsrepo.UnitRepositoryFacade, cr portsrepo.CommunityRepositoryFacade) portssvc.ReportingSvcFacade {
	return &ReportingService{
		reportingRepo: rr,
		unitRepo:      ur,
		communityRepo: cr,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// CommunityDebtSummary aggregates per-unit outstanding totals for a community.
func (s *ReportingService) CommunityDebtSummary(ctx context.Context, communityID string) (*domain.CommunityDebtSummary, error) {
	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.ListAccountRowsByCommunity(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account rows: %w", err)
	}

	summary := &domain.CommunityDebtSummary{
		CommunityID:   communityID,
		Units:         []domain.UnitDebtSummary{},
		TotalOriginal: decimal.Zero,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalBalance:  decimal.Zero,
	}

	perUnit := make(map[string]*domain.UnitDebtSummary)
	for _, row := range rows {
		unit, ok := perUnit[row.UnitID]
		if !ok {
			unit = &domain.UnitDebtSummary{
				UnitID:          row.UnitID,
				UnitLabel:       row.UnitLabel,
				OriginalAmount:  decimal.Zero,
				AccruedInterest: decimal.Zero,
				PaidAmount:      decimal.Zero,
				Balance:         decimal.Zero,
			}
			perUnit[row.UnitID] = unit
		}
		paid := row.OriginalAmount.Add(row.AccruedInterest).Sub(row.Balance)
		unit.OriginalAmount = unit.OriginalAmount.Add(row.OriginalAmount)
		unit.AccruedInterest = unit.AccruedInterest.Add(row.AccruedInterest)
		unit.PaidAmount = unit.PaidAmount.Add(paid)
		unit.Balance = unit.Balance.Add(row.Balance)
		if row.State == string(domain.AccountOverdue) {
			unit.OverdueAccounts++
		}
	}

	for _, unit := range perUnit {
		summary.Units = append(summary.Units, *unit)
		summary.TotalOriginal = summary.TotalOriginal.Add(unit.OriginalAmount)
		summary.TotalInterest = summary.TotalInterest.Add(unit.AccruedInterest)
		summary.TotalPaid = summary.TotalPaid.Add(unit.PaidAmount)
		summary.TotalBalance = summary.TotalBalance.Add(unit.Balance)
		summary.OverdueAccounts += unit.OverdueAccounts
	}
	sort.Slice(summary.Units, func(i, j int) bool {
		return summary.Units[i].UnitLabel < summary.Units[j].UnitLabel
	})
	return summary, nil
}

// UnitStatement builds the chronological charge/payment statement of a unit.
// Charges appear at their emission due date, payments at their received date,
// and the running balance carries across entries.
func (s *ReportingService) UnitStatement(ctx context.Context, unitID string) (*domain.UnitStatement, error) {
	if _, err := s.unitRepo.FindUnitByID(ctx, unitID); err != nil {
		return nil, err
	}

	accountRows, err := s.reportingRepo.ListAccountRowsByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account rows: %w", err)
	}
	paymentRows, err := s.reportingRepo.ListPaymentRowsByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment rows: %w", err)
	}

	entries := make([]domain.StatementEntry, 0, len(accountRows)+len(paymentRows))
	for _, row := range accountRows {
		entries = append(entries, domain.StatementEntry{
			Kind:        domain.EntryCharge,
			Date:        row.DueDate,
			Description: fmt.Sprintf("Emission %s", row.Period),
			Amount:      row.OriginalAmount.Add(row.AccruedInterest),
		})
	}
	for _, row := range paymentRows {
		description := row.Method
		if row.Reference != "" {
			description = fmt.Sprintf("%s %s", row.Method, row.Reference)
		}
		entries = append(entries, domain.StatementEntry{
			Kind:        domain.EntryPayment,
			Date:        row.ReceivedDate,
			Description: description,
			Amount:      row.AmountApplied.Neg(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		// Same-day charge before payment keeps the running balance sensible.
		return entries[i].Kind == domain.EntryCharge && entries[j].Kind == domain.EntryPayment
	})

	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Amount)
		entries[i].RunningBalance = balance
	}

	return &domain.UnitStatement{
		UnitID:  unitID,
		Entries: entries,
		Balance: balance,
	}, nil
}
