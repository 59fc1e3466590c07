package repositories

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
)

// CommunityReader defines read operations for community data
type CommunityReader interface {
	// FindCommunityByID retrieves a specific community by its unique identifier.
	FindCommunityByID(ctx context.Context, communityID string) (*domain.Community, error)

	// ListCommunities retrieves a paginated list of communities.
	ListCommunities(ctx context.Context, limit int, offset int) ([]domain.Community, error)

	// ListActiveCommunityIDs returns the IDs of all active communities, used by
	// the accrual batch to shard work per community.
	ListActiveCommunityIDs(ctx context.Context) ([]string, error)

	// FindBillingParametersByCommunityID retrieves the billing configuration.
	FindBillingParametersByCommunityID(ctx context.Context, communityID string) (*domain.BillingParameters, error)
}

// CommunityWriter defines write operations for community data
type CommunityWriter interface {
	// SaveCommunity persists a new community.
	SaveCommunity(ctx context.Context, community domain.Community) error

	// SaveBillingParameters inserts or updates the community's billing
	// configuration. Parameters are never deleted.
	SaveBillingParameters(ctx context.Context, params domain.BillingParameters) error
}

// CommunityRepositoryFacade combines all community-related repository interfaces
type CommunityRepositoryFacade interface {
	CommunityReader
	CommunityWriter
}
