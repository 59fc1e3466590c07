package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// EmissionSvcFacade is the proration engine: it turns approved expenses into
// an issued emission with one unit account per active unit.
type EmissionSvcFacade interface {
	// CreateEmission prorates the given approved expenses across the
	// community's active units and issues the emission atomically. At most
	// one issued emission may exist per (community, period);
	// ErrDuplicateEmission otherwise.
	CreateEmission(ctx context.Context, communityID string, req dto.CreateEmissionRequest, actorID string) (*domain.Emission, error)

	// GetEmissionByID retrieves an emission with its lines.
	GetEmissionByID(ctx context.Context, communityID string, emissionID string) (*domain.Emission, error)

	// ListEmissions retrieves a paginated list of community emissions.
	ListEmissions(ctx context.Context, communityID string, limit int, offset int) ([]domain.Emission, error)
}
