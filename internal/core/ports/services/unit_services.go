package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// UnitSvcFacade manages the units of a community and their proration
// coefficients. All write operations enforce that the coefficients of the
// resulting active unit set sum to exactly 1.
type UnitSvcFacade interface {
	// CreateUnits persists a batch of units; the batch plus any existing
	// active units must carry coefficients summing to 1.
	CreateUnits(ctx context.Context, communityID string, req dto.CreateUnitsRequest, actorID string) ([]domain.Unit, error)

	// RebalanceUnits adjusts coefficients (and optionally deactivates units)
	// atomically; the resulting active set must sum to 1.
	RebalanceUnits(ctx context.Context, communityID string, req dto.RebalanceUnitsRequest, actorID string) ([]domain.Unit, error)

	// GetUnitByID retrieves a unit.
	GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListUnits retrieves units of a community.
	ListUnits(ctx context.Context, communityID string, activeOnly bool) ([]domain.Unit, error)
}
