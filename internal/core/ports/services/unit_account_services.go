package services

import (
	"context"
	"time"

	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/condoledger/condoledger/internal/dto"
)

// UnitAccountSvcFacade owns unit receivables and the interest accrual batch.
type UnitAccountSvcFacade interface {
	// GetUnitAccount retrieves a unit account with its breakdown rows.
	GetUnitAccount(ctx context.Context, unitAccountID string) (*domain.UnitAccount, []domain.UnitAccountDetail, error)

	// ListAccountsByUnit retrieves a unit's accounts, newest emission first.
	ListAccountsByUnit(ctx context.Context, unitID string) ([]domain.OutstandingAccount, error)

	// AccrueInterest runs the accrual batch over every active community as of
	// the given date. Idempotent: re-running with the same date is a no-op.
	AccrueInterest(ctx context.Context, asOfDate time.Time) (*dto.AccrualRunResult, error)

	// AccrueCommunityInterest runs the accrual batch for one community and
	// returns the number of accounts that accrued.
	AccrueCommunityInterest(ctx context.Context, communityID string, asOfDate time.Time) (int, error)
}
