package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/condoledger/condoledger/internal/apperrors"
	"github.com/condoledger/condoledger/internal/core/domain"
	portsrepo "github.com/condoledger/condoledger/internal/core/ports/repositories"
	"github.com/condoledger/condoledger/internal/models"
	"github.com/condoledger/condoledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxUnitRepository struct {
	BaseRepository
}

// newPgxUnitRepository creates a new repository for unit data.
func newPgxUnitRepository(pool *pgxpool.Pool) portsrepo.UnitRepositoryFacade {
	return &PgxUnitRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitRepositoryFacade = (*PgxUnitRepository)(nil)

// FindUnitByID retrieves a unit by its ID.
func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `
		SELECT unit_id, community_id, label, proration_coefficient, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM units
		WHERE unit_id = $1;
	`
	var model models.Unit
	err := r.Pool.QueryRow(ctx, query, unitID).Scan(
		&model.UnitID,
		&model.CommunityID,
		&model.Label,
		&model.ProrationCoefficient,
		&model.IsActive,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("unit %s not found", unitID))
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find unit %s", unitID), err)
	}
	unit := mapping.ToDomainUnit(model)
	return &unit, nil
}

// ListUnitsByCommunity retrieves units of a community ordered by label.
func (r *PgxUnitRepository) ListUnitsByCommunity(ctx context.Context, communityID string, activeOnly bool) ([]domain.Unit, error) {
	query := `
		SELECT unit_id, community_id, label, proration_coefficient, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM units
		WHERE community_id = $1 AND ($2 = FALSE OR is_active = TRUE)
		ORDER BY label;
	`
	rows, err := r.Pool.Query(ctx, query, communityID, activeOnly)
	if err != nil {
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to list units for community %s", communityID), err)
	}
	defer rows.Close()

	units := []domain.Unit{}
	for rows.Next() {
		var model models.Unit
		if err := rows.Scan(
			&model.UnitID,
			&model.CommunityID,
			&model.Label,
			&model.ProrationCoefficient,
			&model.IsActive,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unit row", err)
		}
		units = append(units, mapping.ToDomainUnit(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unit rows", err)
	}
	return units, nil
}

// SaveUnits persists a batch of new units in a single transaction.
func (r *PgxUnitRepository) SaveUnits(ctx context.Context, units []domain.Unit) error {
	if len(units) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	query := `
		INSERT INTO units (unit_id, community_id, label, proration_coefficient, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, unit := range units {
		model := mapping.ToModelUnit(unit)
		batch.Queue(query,
			model.UnitID,
			model.CommunityID,
			model.Label,
			model.ProrationCoefficient,
			model.IsActive,
			model.CreatedAt,
			model.CreatedBy,
			model.LastUpdatedAt,
			model.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range units {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to insert unit batch", err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close unit batch", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateCoefficients applies a rebalance atomically: coefficient updates and
// deactivations all commit or none do.
func (r *PgxUnitRepository) UpdateCoefficients(ctx context.Context, communityID string, coefficients map[string]decimal.Decimal, deactivate []string, actorID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	updateQuery := `
		UPDATE units SET proration_coefficient = $1, last_updated_at = $2, last_updated_by = $3
		WHERE unit_id = $4 AND community_id = $5;
	`
	for unitID, coeff := range coefficients {
		batch.Queue(updateQuery, coeff, now, actorID, unitID, communityID)
	}
	deactivateQuery := `
		UPDATE units SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE unit_id = $3 AND community_id = $4;
	`
	for _, unitID := range deactivate {
		batch.Queue(deactivateQuery, now, actorID, unitID, communityID)
	}

	results := tx.SendBatch(ctx, batch)
	total := len(coefficients) + len(deactivate)
	for i := 0; i < total; i++ {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to update unit", err)
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return fmt.Errorf("unit update touched no row: %w", apperrors.ErrNotFound)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close unit update batch", err)
	}

	return r.Commit(ctx, tx)
}
