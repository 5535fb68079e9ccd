// Package queries contains read operations for retrieving routing state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models built with plain SQL, never aggregates.
package queries

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetPalletsByPartQueryIsNotConstructed = errors.New(
		"GetPalletsByPartQuery must be created via NewGetPalletsByPartQuery constructor",
	)
)

// GetPalletsByPartQuery lists a part's pallets with the stage each one is at.
//
// Example:
//
//	query, err := NewGetPalletsByPartQuery(partID)
//	if err != nil {
//	    return err
//	}
//	pallets, err := handler.Handle(ctx, query)
//	for _, p := range pallets {
//	    fmt.Printf("#%d %s at %s (%s)\n", p.Number, p.Quantity, p.CurrentStageName, p.Status)
//	}
type GetPalletsByPartQuery struct {
	partID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPalletsByPartQuery(partID kernel.UUID) (GetPalletsByPartQuery, error) {
	if err := partID.Validate(); err != nil {
		return GetPalletsByPartQuery{}, errs.NewValueIsInvalidErrorWithCause("partID", err)
	}
	return GetPalletsByPartQuery{partID: partID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPalletsByPartQuery) Validate() error {
	return q.guard.Validate(ErrGetPalletsByPartQueryIsNotConstructed)
}

func (q GetPalletsByPartQuery) PartID() kernel.UUID {
	return q.partID
}

// GetPalletsByPartQueryResponse is one pallet. CurrentStageID is nil once every
// stage of the route is completed. MachineID and CellID tell where the pallet
// is: on a machine, in a buffer cell, or neither.
type GetPalletsByPartQueryResponse struct {
	ID               kernel.UUID
	Number           int
	Quantity         decimal.Decimal
	CurrentStageID   *kernel.UUID
	CurrentStageName string
	Status           string
	MachineID        *kernel.UUID
	CellID           *kernel.UUID
}
