package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

// CommunityService handles business logic for communities and their billing
// configuration.
type CommunityService struct {
	communityRepo portsrepo.CommunityRepositoryFacade
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(cr portsrepo.CommunityRepositoryFacade) portssvc.CommunitySvcFacade {
	return &CommunityService{communityRepo: cr}
}

var _ portssvc.CommunitySvcFacade = (*CommunityService)(nil)

// CreateCommunity persists a new community together with default billing
// parameters so every community always has a configuration row.
func (s *CommunityService) CreateCommunity(ctx context.Context, req dto.CreateCommunityRequest, actorID string) (*domain.Community, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, req.Timezone)
	}

	now := time.Now()
	community := domain.Community{
		CommunityID:  uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Timezone:     req.Timezone,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.communityRepo.SaveCommunity(ctx, community); err != nil {
		logger.Error("Failed to save community", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	params := domain.BillingParameters{
		CommunityID:        community.CommunityID,
		GraceDays:          0,
		LateFeeRate:        decimal.Zero,
		InterestMethod:     domain.InterestSimple,
		InterestBase:       domain.BaseTotalDebt,
		MaxMonthlyInterest: decimal.Zero,
		RoundingRule:       domain.RoundNearest,
		SkipZeroAccounts:   false,
		AuditFields:        community.AuditFields,
	}
	if err := s.communityRepo.SaveBillingParameters(ctx, params); err != nil {
		logger.Error("Failed to save default billing parameters", slog.String("error", err.Error()), slog.String("community_id", community.CommunityID))
		return nil, fmt.Errorf("failed to create billing parameters: %w", err)
	}

	logger.Info("Community created", slog.String("community_id", community.CommunityID))
	return &community, nil
}

// GetCommunityByID retrieves a community.
func (s *CommunityService) GetCommunityByID(ctx context.Context, communityID string) (*domain.Community, error) {
	return s.communityRepo.FindCommunityByID(ctx, communityID)
}

// ListCommunities retrieves a paginated list of communities.
func (s *CommunityService) ListCommunities(ctx context.Context, limit int, offset int) ([]domain.Community, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.communityRepo.ListCommunities(ctx, limit, offset)
}

// GetBillingParameters retrieves the billing configuration of a community.
func (s *CommunityService) GetBillingParameters(ctx context.Context, communityID string) (*domain.BillingParameters, error) {
	if _, err := s.communityRepo.FindCommunityByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.communityRepo.FindBillingParametersByCommunityID(ctx, communityID)
}

// UpdateBillingParameters applies a partial update to the community's billing
// configuration. Unset fields keep their current value. The new configuration
// only affects emissions issued and accruals run after the update.
func (s *CommunityService) UpdateBillingParameters(ctx context.Context, communityID string, req dto.UpdateBillingParametersRequest, actorID string) (*domain.BillingParameters, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	params, err := s.communityRepo.FindBillingParametersByCommunityID(ctx, communityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("billing parameters for community %s: %w", communityID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load billing parameters: %w", err)
	}

	if req.GraceDays != nil {
		if *req.GraceDays < 0 {
			return nil, fmt.Errorf("%w: graceDays must not be negative", apperrors.ErrValidation)
		}
		params.GraceDays = *req.GraceDays
	}
	if req.LateFeeRate != nil {
		if req.LateFeeRate.IsNegative() {
			return nil, fmt.Errorf("%w: lateFeeRate must not be negative", apperrors.ErrValidation)
		}
		params.LateFeeRate = *req.LateFeeRate
	}
	if req.InterestMethod != nil {
		params.InterestMethod = domain.InterestMethod(*req.InterestMethod)
	}
	if req.InterestBase != nil {
		params.InterestBase = domain.InterestBase(*req.InterestBase)
	}
	if req.MaxMonthlyInterest != nil {
		params.MaxMonthlyInterest = *req.MaxMonthlyInterest
	}
	if req.RoundingRule != nil {
		params.RoundingRule = domain.RoundingRule(*req.RoundingRule)
	}
	if req.SkipZeroAccounts != nil {
		params.SkipZeroAccounts = *req.SkipZeroAccounts
	}

	params.LastUpdatedAt = time.Now()
	params.LastUpdatedBy = actorID

	if err := s.communityRepo.SaveBillingParameters(ctx, *params); err != nil {
		logger.Error("Failed to save billing parameters", slog.String("error", err.Error()), slog.String("community_id", communityID))
		return nil, fmt.Errorf("failed to update billing parameters: %w", err)
	}

	logger.Info("Billing parameters updated", slog.String("community_id", communityID))
	return params, nil
}
