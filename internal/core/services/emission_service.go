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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmissionService turns approved expenses into an issued emission with one
// receivable per active unit. Shares are prorated per expense, rounded per
// the community's rounding rule, and the rounding remainder is assigned so
// that the shares of every expense sum to its amount exactly.
type EmissionService struct {
	emissionRepo  portsrepo.EmissionRepositoryFacade
	expenseRepo   portsrepo.ExpenseRepositoryFacade
	unitRepo      portsrepo.UnitRepositoryFacade
	communityRepo portsrepo.CommunityRepositoryFacade
}

// NewEmissionService creates a new EmissionService.
func NewEmissionService(emr portsrepo.EmissionRepositoryFacade, exr portsrepo.ExpenseRepositoryFacade, ur portsrepo.UnitRepositoryFacade, cr portsrepo.CommunityRepositoryFacade) portssvc.EmissionSvcFacade {
	return &EmissionService{
		emissionRepo:  emr,
		expenseRepo:   exr,
		unitRepo:      ur,
		communityRepo: cr,
	}
}

var _ portssvc.EmissionSvcFacade = (*EmissionService)(nil)

// CreateEmission validates the request, prorates every line across the active
// units and issues the emission in a single transaction. At most one issued
// emission may exist per community and period.
func (s *EmissionService) CreateEmission(ctx context.Context, communityID string, req dto.CreateEmissionRequest, actorID string) (*domain.Emission, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := time.Parse("2006-01", req.Period); err != nil {
		return nil, fmt.Errorf("%w: period must be formatted YYYY-MM, got %q", apperrors.ErrValidation, req.Period)
	}
	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	params, err := s.communityRepo.FindBillingParametersByCommunityID(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load billing parameters: %w", err)
	}

	if _, err := s.emissionRepo.FindIssuedEmissionByPeriod(ctx, communityID, req.Period); err == nil {
		return nil, fmt.Errorf("period %s: %w", req.Period, apperrors.ErrDuplicateEmission)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check period %s: %w", req.Period, err)
	}

	units, err := s.unitRepo.ListUnitsByCommunity(ctx, communityID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: community %s has no active units", apperrors.ErrValidation, communityID)
	}
	shares := make([]billing.UnitShare, len(units))
	for i, u := range units {
		shares[i] = billing.UnitShare{UnitID: u.UnitID, Coefficient: u.ProrationCoefficient}
	}

	expenseIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if seen[line.ExpenseID] {
			return nil, fmt.Errorf("%w: expense %s appears in more than one line", apperrors.ErrValidation, line.ExpenseID)
		}
		seen[line.ExpenseID] = true
		expenseIDs = append(expenseIDs, line.ExpenseID)
	}
	expenses, err := s.expenseRepo.FindExpensesByIDs(ctx, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	now := time.Now()
	emissionID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	emission := domain.Emission{
		EmissionID:  emissionID,
		CommunityID: communityID,
		Period:      req.Period,
		DueDate:     req.DueDate,
		State:       domain.EmissionIssued,
		Lines:       make([]domain.EmissionLine, 0, len(req.Lines)),
		AuditFields: audit,
	}

	// Per-unit accumulation across all lines; details trace each share back
	// to its source expense.
	unitTotals := make(map[string]decimal.Decimal, len(units))
	unitDetails := make(map[string][]domain.UnitAccountDetail, len(units))
	historyEntries := make([]domain.ExpenseHistoryEntry, 0, len(req.Lines))

	for _, line := range req.Lines {
		expense, ok := expenses[line.ExpenseID]
		if !ok {
			return nil, fmt.Errorf("expense %s: %w", line.ExpenseID, apperrors.ErrNotFound)
		}
		if expense.CommunityID != communityID {
			return nil, fmt.Errorf("expense %s: %w", line.ExpenseID, apperrors.ErrNotFound)
		}
		if expense.State != domain.ExpenseApproved {
			return nil, fmt.Errorf("%w: expense %s is %s, only APPROVED expenses can be emitted", apperrors.ErrInvalidState, line.ExpenseID, expense.State)
		}

		rule := domain.ProrationRule(line.ProrationRule)
		fixedPerUnit := decimal.Zero
		if rule == domain.FixedPerUnit {
			if line.FixedAmountPerUnit == nil {
				return nil, fmt.Errorf("%w: fixedAmountPerUnit is required for FIXED_PER_UNIT", apperrors.ErrValidation)
			}
			fixedPerUnit = *line.FixedAmountPerUnit
		}

		lineShares, err := billing.ProrateAmount(expense.Amount, rule, fixedPerUnit, shares, params.RoundingRule)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", line.ExpenseID, err)
		}

		emission.Lines = append(emission.Lines, domain.EmissionLine{
			LineID:             uuid.NewString(),
			EmissionID:         emissionID,
			ExpenseID:          expense.ExpenseID,
			TotalAmount:        expense.Amount,
			ProrationRule:      rule,
			FixedAmountPerUnit: fixedPerUnit,
		})
		historyEntries = append(historyEntries, domain.ExpenseHistoryEntry{
			EntryID:   uuid.NewString(),
			ExpenseID: expense.ExpenseID,
			Action:    domain.ActionInclude,
			ActorID:   actorID,
			Note:      fmt.Sprintf("emission %s period %s", emissionID, req.Period),
			Timestamp: now,
		})

		for unitID, amount := range lineShares {
			unitTotals[unitID] = unitTotals[unitID].Add(amount)
			if amount.IsZero() {
				continue
			}
			unitDetails[unitID] = append(unitDetails[unitID], domain.UnitAccountDetail{
				DetailID:   uuid.NewString(),
				ExpenseID:  expense.ExpenseID,
				CategoryID: expense.CategoryID,
				Amount:     amount,
			})
		}
	}

	accounts := make([]domain.UnitAccount, 0, len(units))
	details := make([]domain.UnitAccountDetail, 0, len(units))
	for _, u := range units {
		total := unitTotals[u.UnitID]
		if params.SkipZeroAccounts && total.IsZero() {
			continue
		}
		accountID := uuid.NewString()
		state := domain.AccountOpen
		if total.IsZero() {
			state = domain.AccountPaid
		}
		accounts = append(accounts, domain.UnitAccount{
			UnitAccountID:   accountID,
			UnitID:          u.UnitID,
			EmissionID:      emissionID,
			OriginalAmount:  total,
			AccruedInterest: decimal.Zero,
			Balance:         total,
			State:           state,
			Version:         1,
			AuditFields:     audit,
		})
		for _, d := range unitDetails[u.UnitID] {
			d.UnitAccountID = accountID
			details = append(details, d)
		}
	}

	if err := s.emissionRepo.IssueEmission(ctx, emission, accounts, details, historyEntries); err != nil {
		logger.Error("Failed to issue emission", slog.String("error", err.Error()), slog.String("community_id", communityID), slog.String("period", req.Period))
		return nil, err
	}

	logger.Info("Emission issued",
		slog.String("emission_id", emissionID),
		slog.String("community_id", communityID),
		slog.String("period", req.Period),
		slog.Int("lines", len(emission.Lines)),
		slog.Int("accounts", len(accounts)))
	return &emission, nil
}

// GetEmissionByID retrieves an emission with its lines, scoped to the community.
func (s *EmissionService) GetEmissionByID(ctx context.Context, communityID string, emissionID string) (*domain.Emission, error) {
	emission, err := s.emissionRepo.FindEmissionByID(ctx, emissionID)
	if err != nil {
		return nil, err
	}
	if emission.CommunityID != communityID {
		return nil, fmt.Errorf("emission %s: %w", emissionID, apperrors.ErrNotFound)
	}
	return emission, nil
}

// ListEmissions retrieves a paginated list of community emissions.
func (s *EmissionService) ListEmissions(ctx context.Context, communityID string, limit int, offset int) ([]domain.Emission, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.emissionRepo.ListEmissionsByCommunity(ctx, communityID, limit, offset)
}
