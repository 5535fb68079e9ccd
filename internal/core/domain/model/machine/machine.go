package machine

import (
	"errors"
	"fmt"
	"slices"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/route"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

// Rules reported by the assignment ledger.
const (
	RuleMachineNotCapable      = "MachineNotCapable"
	RuleMachineInactive        = "MachineInactive"
	RulePalletBusyElsewhere    = "PalletBusyElsewhere"
	RuleNoActiveAssignment     = "NoActiveAssignment"
	RuleCompletedTaskImmutable = "CompletedTaskImmutable"
	RuleNotAssigned            = "NotAssigned"
)

var ErrMachineIsNotConstructed = errors.New("Machine must be created via NewMachine constructor")

// Machine is a registry entry: the stages and sub-stages it can execute and
// whether it is accepting work.
type Machine struct {
	id           kernel.UUID
	name         string
	status       Status
	capabilities []kernel.UUID

	guard guard.ConstructorGuard
}

func NewMachine(id kernel.UUID, name string, status Status, capabilities []kernel.UUID) (*Machine, error) {
	m := &Machine{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setName(name),
		m.setStatus(status),
		m.setCapabilities(capabilities),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Machine) Validate() error {
	if m == nil {
		return ErrMachineIsNotConstructed
	}
	return m.guard.Validate(ErrMachineIsNotConstructed)
}

func (m *Machine) ID() kernel.UUID {
	return m.id
}

func (m *Machine) Name() string {
	return m.name
}

func (m *Machine) Status() Status {
	return m.status
}

func (m *Machine) Capabilities() []kernel.UUID {
	return slices.Clone(m.capabilities)
}

func (m *Machine) IsActive() bool {
	return m.status == Active
}

// CanExecute reports whether the machine is configured for the stage or its sub-stage.
func (m *Machine) CanExecute(stage *route.RouteStage) bool {
	for _, c := range m.capabilities {
		if c.IsEqual(stage.StageID()) {
			return true
		}
		if sub := stage.SubStageID(); sub != nil && c.IsEqual(*sub) {
			return true
		}
	}
	return false
}

// EnsureCanExecute is CanExecute as an error.
func (m *Machine) EnsureCanExecute(stage *route.RouteStage) error {
	if m.CanExecute(stage) {
		return nil
	}
	return errs.NewRuleViolationError(RuleMachineNotCapable,
		fmt.Sprintf("machine %s cannot execute stage %s", m.name, stage.StageName()))
}

// EnsureActive fails with a conflict while the machine is inactive or in maintenance.
func (m *Machine) EnsureActive() error {
	if m.IsActive() {
		return nil
	}
	return errs.NewConflictError(RuleMachineInactive,
		fmt.Sprintf("machine %s is %s", m.name, m.status))
}

func (m *Machine) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Machine) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	m.name = name
	return nil
}

func (m *Machine) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	m.status = status
	return nil
}

func (m *Machine) setCapabilities(capabilities []kernel.UUID) error {
	for _, c := range capabilities {
		if err := c.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("capabilities", err)
		}
	}
	m.capabilities = slices.Clone(capabilities)
	return nil
}
