package repositories

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
)

// EmissionReader defines read operations for emission data
type EmissionReader interface {
	// FindEmissionByID retrieves an emission with its lines.
	FindEmissionByID(ctx context.Context, emissionID string) (*domain.Emission, error)

	// FindIssuedEmissionByPeriod retrieves the issued emission for a
	// community and period, or ErrNotFound.
	FindIssuedEmissionByPeriod(ctx context.Context, communityID string, period string) (*domain.Emission, error)

	// ListEmissionsByCommunity retrieves a paginated list of emissions.
	ListEmissionsByCommunity(ctx context.Context, communityID string, limit int, offset int) ([]domain.Emission, error)
}

// EmissionWriter defines write operations for emission data
type EmissionWriter interface {
	// IssueEmission writes the emission, its lines, all unit accounts and
	// their detail rows, and flips the source expenses to
	// INCLUDED_IN_EMISSION with audit entries, all in one transaction.
	// A unique constraint on (community, period, issued) maps to
	// ErrDuplicateEmission; a source expense no longer in APPROVED state
	// aborts the transaction with ErrConcurrencyConflict.
	IssueEmission(ctx context.Context, emission domain.Emission, accounts []domain.UnitAccount, details []domain.UnitAccountDetail, historyEntries []domain.ExpenseHistoryEntry) error
}

// EmissionRepositoryFacade combines all emission-related repository interfaces
type EmissionRepositoryFacade interface {
	EmissionReader
	EmissionWriter
}
