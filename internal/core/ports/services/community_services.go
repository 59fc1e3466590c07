package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// CommunityReaderSvc defines read operations for communities
type CommunityReaderSvc interface {
	// GetCommunityByID retrieves a community.
	GetCommunityByID(ctx context.Context, communityID string) (*domain.Community, error)

	// ListCommunities retrieves a paginated list of communities.
	ListCommunities(ctx context.Context, limit int, offset int) ([]domain.Community, error)

	// GetBillingParameters retrieves the billing configuration of a community.
	GetBillingParameters(ctx context.Context, communityID string) (*domain.BillingParameters, error)
}

// CommunityWriterSvc defines write operations for communities
type CommunityWriterSvc interface {
	// CreateCommunity persists a new community with default billing parameters.
	CreateCommunity(ctx context.Context, req dto.CreateCommunityRequest, actorID string) (*domain.Community, error)

	// UpdateBillingParameters applies a partial update to the community's
	// billing configuration.
	UpdateBillingParameters(ctx context.Context, communityID string, req dto.UpdateBillingParametersRequest, actorID string) (*domain.BillingParameters, error)
}

// CommunitySvcFacade combines all community-related service interfaces
type CommunitySvcFacade interface {
	CommunityReaderSvc
	CommunityWriterSvc
}
