package machine

import (
	"errors"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Assignment binds a pallet to a machine for one route stage. It is open while
// completedAt is nil; a pallet has at most one open assignment.
type Assignment struct {
	id           kernel.UUID
	palletID     kernel.UUID
	machineID    kernel.UUID
	routeStageID kernel.UUID
	assignedAt   time.Time
	completedAt  *time.Time

	guard guard.ConstructorGuard
}

// NewAssignment opens an assignment.
func NewAssignment(
	id kernel.UUID,
	palletID kernel.UUID,
	machineID kernel.UUID,
	routeStageID kernel.UUID,
	assignedAt time.Time,
) (*Assignment, error) {
	return RestoreAssignment(id, palletID, machineID, routeStageID, assignedAt, nil)
}

func RestoreAssignment(
	id kernel.UUID,
	palletID kernel.UUID,
	machineID kernel.UUID,
	routeStageID kernel.UUID,
	assignedAt time.Time,
	completedAt *time.Time,
) (*Assignment, error) {
	if err := errors.Join(
		id.Validate(),
		palletID.Validate(),
		machineID.Validate(),
		routeStageID.Validate(),
	); err != nil {
		return nil, err
	}
	if assignedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("assignedAt")
	}

	return &Assignment{
		id:           id,
		palletID:     palletID,
		machineID:    machineID,
		routeStageID: routeStageID,
		assignedAt:   assignedAt,
		completedAt:  completedAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *Assignment) ID() kernel.UUID {
	return a.id
}

func (a *Assignment) PalletID() kernel.UUID {
	return a.palletID
}

func (a *Assignment) MachineID() kernel.UUID {
	return a.machineID
}

func (a *Assignment) RouteStageID() kernel.UUID {
	return a.routeStageID
}

func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

func (a *Assignment) CompletedAt() *time.Time {
	return a.completedAt
}

func (a *Assignment) IsOpen() bool {
	return a.completedAt == nil
}

// IsOn reports whether the assignment is held by machineID.
func (a *Assignment) IsOn(machineID kernel.UUID) bool {
	return a.machineID.IsEqual(machineID)
}

// Close completes the assignment. Closing a closed assignment fails.
func (a *Assignment) Close(at time.Time) error {
	if !a.IsOpen() {
		return errs.NewRuleViolationError(RuleCompletedTaskImmutable, "assignment is already closed")
	}
	a.completedAt = &at
	return nil
}
