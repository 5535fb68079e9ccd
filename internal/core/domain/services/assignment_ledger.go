package services

import (
	"fmt"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/route"
	"production/internal/pkg/errs"
)

// AssignResult describes what an assignment operation changed.
type AssignResult struct {
	// Assignment is the pallet's open assignment after the call.
	Assignment *machine.Assignment
	// Opened is true when Assignment was created by this call.
	Opened bool
	// Closed is a previous assignment that this call closed.
	Closed *machine.Assignment
}

// AssignmentLedger keeps at most one open assignment per pallet, always on a
// machine capable of the pallet's current stage.
type AssignmentLedger struct{}

func NewAssignmentLedger() AssignmentLedger {
	return AssignmentLedger{}
}

// Assign binds the pallet to m for stage.
//
// An open assignment on the same machine and stage is returned unchanged. An open
// assignment on another machine blocks the call while work on stage is in
// progress; otherwise it is treated as a stale supervisor route and closed.
func (AssignmentLedger) Assign(
	palletID kernel.UUID,
	m *machine.Machine,
	stage *route.RouteStage,
	stageStatus progress.Status,
	open *machine.Assignment,
	at time.Time,
) (AssignResult, error) {
	if err := m.EnsureCanExecute(stage); err != nil {
		return AssignResult{}, err
	}

	var result AssignResult
	if open != nil && open.IsOpen() {
		if open.IsOn(m.ID()) && open.RouteStageID().IsEqual(stage.ID()) {
			return AssignResult{Assignment: open}, nil
		}
		if !open.IsOn(m.ID()) && open.RouteStageID().IsEqual(stage.ID()) && stageStatus == progress.InProgress {
			return AssignResult{}, errs.NewConflictError(machine.RulePalletBusyElsewhere,
				fmt.Sprintf("pallet %s is being processed on machine %s", palletID, open.MachineID()))
		}
		if err := open.Close(at); err != nil {
			return AssignResult{}, err
		}
		result.Closed = open
	}

	a, err := machine.NewAssignment(kernel.NewUUID(), palletID, m.ID(), stage.ID(), at)
	if err != nil {
		return AssignResult{}, err
	}
	result.Assignment = a
	result.Opened = true
	return result, nil
}

// Complete closes the pallet's open assignment on m.
func (AssignmentLedger) Complete(m *machine.Machine, open *machine.Assignment, at time.Time) error {
	if open == nil || !open.IsOpen() || !open.IsOn(m.ID()) {
		return errs.NewRuleViolationError(machine.RuleNoActiveAssignment,
			fmt.Sprintf("no open assignment on machine %s", m.Name()))
	}
	return open.Close(at)
}

// Move hands the pallet's current work to target. latest is the pallet's most
// recent assignment; a closed one cannot be moved.
func (AssignmentLedger) Move(
	palletID kernel.UUID,
	target *machine.Machine,
	stage *route.RouteStage,
	latest *machine.Assignment,
	at time.Time,
) (AssignResult, error) {
	if latest == nil {
		return AssignResult{}, errs.NewRuleViolationError(machine.RuleNoActiveAssignment,
			fmt.Sprintf("pallet %s has no assignment to move", palletID))
	}
	if !latest.IsOpen() {
		return AssignResult{}, errs.NewRuleViolationError(machine.RuleCompletedTaskImmutable,
			fmt.Sprintf("assignment %s is already completed", latest.ID()))
	}
	if err := target.EnsureCanExecute(stage); err != nil {
		return AssignResult{}, err
	}
	if latest.IsOn(target.ID()) && latest.RouteStageID().IsEqual(stage.ID()) {
		return AssignResult{Assignment: latest}, nil
	}

	if err := latest.Close(at); err != nil {
		return AssignResult{}, err
	}
	a, err := machine.NewAssignment(kernel.NewUUID(), palletID, target.ID(), stage.ID(), at)
	if err != nil {
		return AssignResult{}, err
	}
	return AssignResult{Assignment: a, Opened: true, Closed: latest}, nil
}
