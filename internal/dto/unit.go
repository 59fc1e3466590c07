package dto

import (
	"github.com/condoledger/condoledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UnitSpec describes one unit in a creation batch.
type UnitSpec struct {
	Label       string          `json:"label" binding:"required"`
	Coefficient decimal.Decimal `json:"coefficient" binding:"required"`
}

// CreateUnitsRequest defines the payload for creating a batch of units.
// The batch plus any existing active units must carry coefficients summing
// to exactly 1.
type CreateUnitsRequest struct {
	Units []UnitSpec `json:"units" binding:"required,min=1,dive"`
}

// RebalanceUnitsRequest adjusts coefficients and optionally deactivates
// units; the resulting active set must sum to exactly 1.
type RebalanceUnitsRequest struct {
	Coefficients map[string]decimal.Decimal `json:"coefficients" binding:"required"`
	Deactivate   []string                   `json:"deactivate,omitempty"`
}

// UnitResponse defines the data returned for a unit.
type UnitResponse struct {
	UnitID               string          `json:"unitID"`
	CommunityID          string          `json:"communityID"`
	Label                string          `json:"label"`
	ProrationCoefficient decimal.Decimal `json:"prorationCoefficient"`
	IsActive             bool            `json:"isActive"`
}

// ToUnitResponse converts a domain.Unit to UnitResponse.
func ToUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:               u.UnitID,
		CommunityID:          u.CommunityID,
		Label:                u.Label,
		ProrationCoefficient: u.ProrationCoefficient,
		IsActive:             u.IsActive,
	}
}

// ToUnitResponses converts a slice of domain.Unit.
func ToUnitResponses(us []domain.Unit) []UnitResponse {
	responses := make([]UnitResponse, len(us))
	for i := range us {
		responses[i] = ToUnitResponse(&us[i])
	}
	return responses
}
