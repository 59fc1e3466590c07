package services

import (
	"context"

	"github.com/condoledger/condoledger/internal/core/domain"
)

// ReportingSvcFacade computes read models from the core entities in
// application code rather than database views.
type ReportingSvcFacade interface {
	// CommunityDebtSummary aggregates per-unit outstanding totals for a community.
	CommunityDebtSummary(ctx context.Context, communityID string) (*domain.CommunityDebtSummary, error)

	// UnitStatement builds the chronological charge/payment statement of a unit.
	UnitStatement(ctx context.Context, unitID string) (*domain.UnitStatement, error)
}
