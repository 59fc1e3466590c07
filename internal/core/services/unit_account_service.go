package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/condoledger/condoledger/internal/utils/billing"
)

// UnitAccountService owns unit receivables and the interest accrual batch.
type UnitAccountService struct {
	unitAccountRepo portsrepo.UnitAccountRepositoryFacade
	communityRepo   portsrepo.CommunityRepositoryFacade
	unitRepo        portsrepo.UnitRepositoryFacade
}

// NewUnitAccountService creates a new UnitAccountService.
func NewUnitAccountService(uar portsrepo.UnitAccountRepositoryFacade, cr portsrepo.CommunityRepositoryFacade, ur portsrepo.UnitRepositoryFacade) portssvc.UnitAccountSvcFacade {
	return &UnitAccountService{
		unitAccountRepo: uar,
		communityRepo:   cr,
		unitRepo:        ur,
	}
}

var _ portssvc.UnitAccountSvcFacade = (*UnitAccountService)(nil)

// GetUnitAccount retrieves a unit account with its breakdown rows.
func (s *UnitAccountService) GetUnitAccount(ctx context.Context, unitAccountID string) (*domain.UnitAccount, []domain.UnitAccountDetail, error) {
	account, err := s.unitAccountRepo.FindUnitAccountByID(ctx, unitAccountID)
	if err != nil {
		return nil, nil, err
	}
	details, err := s.unitAccountRepo.FindDetailsByAccountID(ctx, unitAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load account details: %w", err)
	}
	return account, details, nil
}

// ListAccountsByUnit retrieves a unit's accounts, newest emission first.
func (s *UnitAccountService) ListAccountsByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error) {
	if _, err := s.unitRepo.FindUnitByID(ctx, unitID); err != nil {
		return nil, err
	}
	return s.unitAccountRepo.ListAccountsByUnit(ctx, unitID)
}

// AccrueInterest runs the accrual batch over every active community as of the
// given date. Re-running with the same date accrues nothing further.
func (s *UnitAccountService) AccrueInterest(ctx context.Context, asOfDate time.Time) (*dto.AccrualRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	communityIDs, err := s.communityRepo.ListActiveCommunityIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active communities: %w", err)
	}

	result := &dto.AccrualRunResult{AsOfDate: asOfDate}
	for _, communityID := range communityIDs {
		accrued, err := s.AccrueCommunityInterest(ctx, communityID, asOfDate)
		if err != nil {
			// One broken community must not starve the rest of the batch.
			logger.Error("Accrual failed for community", slog.String("error", err.Error()), slog.String("community_id", communityID))
			continue
		}
		result.CommunitiesProcessed++
		result.AccountsAccrued += accrued
	}

	logger.Info("Accrual run finished",
		slog.Time("as_of", asOfDate),
		slog.Int("communities", result.CommunitiesProcessed),
		slog.Int("accounts", result.AccountsAccrued))
	return result, nil
}

// AccrueCommunityInterest accrues late-payment interest on every outstanding
// account of one community. For each account the anchor is the last accrual
// timestamp, or the due date plus grace days before any interest has been
// charged; only whole months elapsed past the anchor accrue, and the anchor
// advances by exactly the accrued months so partial months carry over.
func (s *UnitAccountService) AccrueCommunityInterest(ctx context.Context, communityID string, asOfDate time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	params, err := s.communityRepo.FindBillingParametersByCommunityID(ctx, communityID)
	if err != nil {
		return 0, fmt.Errorf("failed to load billing parameters: %w", err)
	}
	if !params.LateFeeRate.IsPositive() {
		return 0, nil
	}

	candidates, err := s.unitAccountRepo.ListAccrualCandidates(ctx, communityID, asOfDate)
	if err != nil {
		return 0, fmt.Errorf("failed to list accrual candidates: %w", err)
	}

	accrued := 0
	for _, candidate := range candidates {
		anchor := candidate.DueDate.AddDate(0, 0, params.GraceDays)
		if candidate.LastAccrualAt != nil {
			anchor = *candidate.LastAccrualAt
		}
		periods := billing.MonthsBetween(anchor, asOfDate)
		if periods == 0 {
			continue
		}

		base := candidate.Balance
		if params.InterestBase == domain.BaseTotalDebt {
			base = candidate.OriginalAmount
		}
		delta := billing.ComputeInterest(base, params.LateFeeRate, params.InterestMethod, periods, params.MaxMonthlyInterest)
		if delta.IsZero() {
			continue
		}

		newAnchor := anchor.AddDate(0, periods, 0)
		err := s.unitAccountRepo.ApplyAccrual(ctx, candidate.UnitAccountID, delta, domain.AccountOverdue, newAnchor, candidate.Version, time.Now())
		if err != nil {
			if errors.Is(err, apperrors.ErrConcurrencyConflict) {
				// A payment or a competing run touched the account; it will
				// be picked up again on the next run.
				logger.Warn("Skipping account on version conflict", slog.String("unit_account_id", candidate.UnitAccountID))
				continue
			}
			return accrued, fmt.Errorf("failed to accrue on account %s: %w", candidate.UnitAccountID, err)
		}
		accrued++
	}
	return accrued, nil
}
