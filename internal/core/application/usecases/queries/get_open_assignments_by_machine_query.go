package queries

import (
	"errors"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOpenAssignmentsByMachineQueryIsNotConstructed = errors.New(
		"GetOpenAssignmentsByMachineQuery must be created via NewGetOpenAssignmentsByMachineQuery constructor",
	)
)

// GetOpenAssignmentsByMachineQuery lists the work currently assigned to a machine.
type GetOpenAssignmentsByMachineQuery struct {
	machineID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOpenAssignmentsByMachineQuery(machineID kernel.UUID) (GetOpenAssignmentsByMachineQuery, error) {
	if err := machineID.Validate(); err != nil {
		return GetOpenAssignmentsByMachineQuery{}, errs.NewValueIsInvalidErrorWithCause("machineID", err)
	}
	return GetOpenAssignmentsByMachineQuery{machineID: machineID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOpenAssignmentsByMachineQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenAssignmentsByMachineQueryIsNotConstructed)
}

func (q GetOpenAssignmentsByMachineQuery) MachineID() kernel.UUID {
	return q.machineID
}

// GetOpenAssignmentsByMachineQueryResponse is one open assignment with the
// pallet it holds and the pallet's status at the assigned stage.
type GetOpenAssignmentsByMachineQueryResponse struct {
	AssignmentID kernel.UUID
	PalletID     kernel.UUID
	PalletNumber int
	PartID       kernel.UUID
	Quantity     decimal.Decimal
	RouteStageID kernel.UUID
	StageName    string
	Status       string
	AssignedAt   time.Time
}
