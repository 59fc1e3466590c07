package repositories

import (
	"context"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitReader defines read operations for unit data
type UnitReader interface {
	// FindUnitByID retrieves a specific unit by its unique identifier.
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListUnitsByCommunity retrieves units of a community, optionally only active ones.
	ListUnitsByCommunity(ctx context.Context, communityID string, activeOnly bool) ([]domain.Unit, error)
}

// UnitWriter defines write operations for unit data
type UnitWriter interface {
	// SaveUnits persists a batch of new units atomically.
	SaveUnits(ctx context.Context, units []domain.Unit) error

	// UpdateCoefficients applies a coefficient rebalance (and optional
	// deactivation) atomically across a community's units.
	UpdateCoefficients(ctx context.Context, communityID string, coefficients map[string]decimal.Decimal, deactivate []string, actorID string, now time.Time) error
}

// UnitRepositoryFacade combines all unit-related repository interfaces
type UnitRepositoryFacade interface {
	UnitReader
	UnitWriter
}
