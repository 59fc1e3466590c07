package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/condoledger/condoledger/internal/models"
	"github.com/condoledger/condoledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCommunityRepository struct {
	BaseRepository
}

// newPgxCommunityRepository creates a new repository for community data.
func newPgxCommunityRepository(pool *pgxpool.Pool) portsrepo.CommunityRepositoryFacade {
	return &PgxCommunityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CommunityRepositoryFacade = (*PgxCommunityRepository)(nil)

// SaveCommunity inserts a new community.
func (r *PgxCommunityRepository) SaveCommunity(ctx context.Context, community domain.Community) error {
	model := mapping.ToModelCommunity(community)

	query := `
		INSERT INTO communities (community_id, name, currency_code, timezone, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CommunityID,
		model.Name,
		model.CurrencyCode,
		model.Timezone,
		model.IsActive,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: community %s already exists", apperrors.ErrDuplicate, model.CommunityID)
		}
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save community %s", model.CommunityID), err)
	}
	return nil
}

// FindCommunityByID retrieves a community by its ID.
func (r *PgxCommunityRepository) FindCommunityByID(ctx context.Context, communityID string) (*domain.Community, error) {
	query := `
		SELECT community_id, name, currency_code, timezone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM communities
		WHERE community_id = $1;
	`
	var model models.Community
	err := r.Pool.QueryRow(ctx, query, communityID).Scan(
		&model.CommunityID,
		&model.Name,
		&model.CurrencyCode,
		&model.Timezone,
		&model.IsActive,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("community %s not found", communityID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find community %s", communityID), err)
	}
	community := mapping.ToDomainCommunity(model)
	return &community, nil
}

// ListCommunities retrieves a paginated list of communities, newest first.
func (r *PgxCommunityRepository) ListCommunities(ctx context.Context, limit int, offset int) ([]domain.Community, error) {
	query := `
		SELECT community_id, name, currency_code, timezone, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM communities
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list communities", err)
	}
	defer rows.Close()

	communities := []domain.Community{}
	for rows.Next() {
		var model models.Community
		if err := rows.Scan(
			&model.CommunityID,
			&model.Name,
			&model.CurrencyCode,
			&model.Timezone,
			&model.IsActive,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan community row", err)
		}
		communities = append(communities, mapping.ToDomainCommunity(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating community rows", err)
	}
	return communities, nil
}

// ListActiveCommunityIDs returns the IDs of all active communities.
func (r *PgxCommunityRepository) ListActiveCommunityIDs(ctx context.Context) ([]string, error) {
	query := `SELECT community_id FROM communities WHERE is_active = TRUE ORDER BY community_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list active communities", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan community id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating community ids", err)
	}
	return ids, nil
}

// FindBillingParametersByCommunityID retrieves the billing configuration.
func (r *PgxCommunityRepository) FindBillingParametersByCommunityID(ctx context.Context, communityID string) (*domain.BillingParameters, error) {
	query := `
		SELECT community_id, grace_days, late_fee_rate, interest_method, interest_base, max_monthly_interest, rounding_rule, skip_zero_accounts, created_at, created_by, last_updated_at, last_updated_by
		FROM billing_parameters
		WHERE community_id = $1;
	`
	var model models.BillingParameters
	err := r.Pool.QueryRow(ctx, query, communityID).Scan(
		&model.CommunityID,
		&model.GraceDays,
		&model.LateFeeRate,
		&model.InterestMethod,
		&model.InterestBase,
		&model.MaxMonthlyInterest,
		&model.RoundingRule,
		&model.SkipZeroAccounts,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("billing parameters for community %s not found", communityID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find billing parameters for community %s", communityID), err)
	}
	params := mapping.ToDomainBillingParameters(model)
	return &params, nil
}

// SaveBillingParameters inserts or updates the billing configuration.
func (r *PgxCommunityRepository) SaveBillingParameters(ctx context.Context, params domain.BillingParameters) error {
	model := mapping.ToModelBillingParameters(params)

	query := `
		INSERT INTO billing_parameters (community_id, grace_days, late_fee_rate, interest_method, interest_base, max_monthly_interest, rounding_rule, skip_zero_accounts, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (community_id) DO UPDATE SET
			grace_days = EXCLUDED.grace_days,
			late_fee_rate = EXCLUDED.late_fee_rate,
			interest_method = EXCLUDED.interest_method,
			interest_base = EXCLUDED.interest_base,
			max_monthly_interest = EXCLUDED.max_monthly_interest,
			rounding_rule = EXCLUDED.rounding_rule,
			skip_zero_accounts = EXCLUDED.skip_zero_accounts,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		model.CommunityID,
		model.GraceDays,
		model.LateFeeRate,
		model.InterestMethod,
		model.InterestBase,
		model.MaxMonthlyInterest,
		model.RoundingRule,
		model.SkipZeroAccounts,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to save billing parameters for community %s", model.CommunityID), err)
	}
	return nil
}
