package queries

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/guard"
)

var (
	ErrGetBufferOccupancyQueryIsNotConstructed = errors.New(
		"GetBufferOccupancyQuery must be created via NewGetBufferOccupancyQuery constructor",
	)
)

// GetBufferOccupancyQuery reports every buffer cell with what it holds.
type GetBufferOccupancyQuery struct {
	guard guard.ConstructorGuard
}

func NewGetBufferOccupancyQuery() GetBufferOccupancyQuery {
	return GetBufferOccupancyQuery{guard: guard.NewConstructorGuard()}
}

func (q GetBufferOccupancyQuery) Validate() error {
	return q.guard.Validate(ErrGetBufferOccupancyQueryIsNotConstructed)
}

// GetBufferOccupancyQueryResponse is one cell. Load and Status are derived
// from the open placements, not from the stored counters.
type GetBufferOccupancyQueryResponse struct {
	ID        kernel.UUID
	Name      string
	Capacity  int
	Load      int
	Status    string
	PalletIDs []kernel.UUID
}
