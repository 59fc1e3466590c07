package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	portssvc "github.com/condoledger/condoledger/internal/core/ports/services"
	"github.com/condoledger/condoledger/internal/dto"
	"github.com/condoledger/condoledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// UnitService manages the units of a community. Every write keeps the
// invariant that the coefficients of the active units sum to exactly 1.
type UnitService struct {
	unitRepo      portsrepo.UnitRepositoryFacade
	communityRepo portsrepo.CommunityRepositoryFacade
}

// NewUnitService creates a new UnitService.
func NewUnitService(ur portsrepo.UnitRepositoryFacade, cr portsrepo.CommunityRepositoryFacade) portssvc.UnitSvcFacade {
	return &UnitService{unitRepo: ur, communityRepo: cr}
}

var _ portssvc.UnitSvcFacade = (*UnitService)(nil)

// CreateUnits persists a batch of new units. The new coefficients plus those
// of the already existing active units must sum to exactly 1, so the very
// first batch defines the whole community and later batches require a prior
// rebalance that makes room for them.
func (s *UnitService) CreateUnits(ctx context.Context, communityID string, req dto.CreateUnitsRequest, actorID string) ([]domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}

	existing, err := s.unitRepo.ListUnitsByCommunity(ctx, communityID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing units: %w", err)
	}

	sum := decimal.Zero
	for _, u := range existing {
		sum = sum.Add(u.ProrationCoefficient)
	}
	for _, spec := range req.Units {
		if spec.Coefficient.IsNegative() {
			return nil, fmt.Errorf("%w: unit %q has a negative coefficient", apperrors.ErrValidation, spec.Label)
		}
		sum = sum.Add(spec.Coefficient)
	}
	if !sum.Equal(one) {
		return nil, fmt.Errorf("%w: active unit coefficients must sum to 1, got %s", apperrors.ErrValidation, sum.String())
	}

	now := time.Now()
	units := make([]domain.Unit, len(req.Units))
	for i, spec := range req.Units {
		units[i] = domain.Unit{
			UnitID:               uuid.NewString(),
			CommunityID:          communityID,
			Label:                spec.Label,
			ProrationCoefficient: spec.Coefficient,
			IsActive:             true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	if err := s.unitRepo.SaveUnits(ctx, units); err != nil {
		logger.Error("Failed to save units", slog.String("error", err.Error()), slog.String("community_id", communityID))
		return nil, fmt.Errorf("failed to create units: %w", err)
	}

	logger.Info("Units created", slog.String("community_id", communityID), slog.Int("count", len(units)))
	return units, nil
}

// RebalanceUnits applies new coefficients and optional deactivations in one
// atomic write. The resulting active set must sum to exactly 1.
func (s *UnitService) RebalanceUnits(ctx context.Context, communityID string, req dto.RebalanceUnitsRequest, actorID string) ([]domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	all, err := s.unitRepo.ListUnitsByCommunity(ctx, communityID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("units for community %s: %w", communityID, apperrors.ErrNotFound)
	}

	byID := make(map[string]domain.Unit, len(all))
	for _, u := range all {
		byID[u.UnitID] = u
	}
	for unitID, coeff := range req.Coefficients {
		if _, ok := byID[unitID]; !ok {
			return nil, fmt.Errorf("%w: unit %s does not belong to community %s", apperrors.ErrValidation, unitID, communityID)
		}
		if coeff.IsNegative() {
			return nil, fmt.Errorf("%w: unit %s has a negative coefficient", apperrors.ErrValidation, unitID)
		}
	}
	deactivated := make(map[string]bool, len(req.Deactivate))
	for _, unitID := range req.Deactivate {
		if _, ok := byID[unitID]; !ok {
			return nil, fmt.Errorf("%w: unit %s does not belong to community %s", apperrors.ErrValidation, unitID, communityID)
		}
		deactivated[unitID] = true
	}

	// Validate the invariant on the resulting active set before writing.
	sum := decimal.Zero
	for _, u := range all {
		if deactivated[u.UnitID] || !u.IsActive {
			continue
		}
		coeff := u.ProrationCoefficient
		if c, ok := req.Coefficients[u.UnitID]; ok {
			coeff = c
		}
		sum = sum.Add(coeff)
	}
	if !sum.Equal(one) {
		return nil, fmt.Errorf("%w: rebalanced coefficients must sum to 1, got %s", apperrors.ErrValidation, sum.String())
	}

	now := time.Now()
	if err := s.unitRepo.UpdateCoefficients(ctx, communityID, req.Coefficients, req.Deactivate, actorID, now); err != nil {
		logger.Error("Failed to rebalance units", slog.String("error", err.Error()), slog.String("community_id", communityID))
		return nil, fmt.Errorf("failed to rebalance units: %w", err)
	}

	logger.Info("Units rebalanced", slog.String("community_id", communityID), slog.Int("updated", len(req.Coefficients)), slog.Int("deactivated", len(req.Deactivate)))
	return s.unitRepo.ListUnitsByCommunity(ctx, communityID, false)
}

// GetUnitByID retrieves a unit.
func (s *UnitService) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return s.unitRepo.FindUnitByID(ctx, unitID)
}

// ListUnits retrieves units of a community.
func (s *UnitService) ListUnits(ctx context.Context, communityID string, activeOnly bool) ([]domain.Unit, error) {
	return s.unitRepo.ListUnitsByCommunity(ctx, communityID, activeOnly)
}
