package part

import (
	"errors"
	"fmt"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

// RuleOverAllocation is reported when pallets and defects would exceed the part's total.
const RuleOverAllocation = "OverAllocation"

var ErrPartIsNotConstructed = errors.New("Part must be created via NewPart constructor")

// Part is a quantity of one product routed along a single Route. Its quantity is
// split across pallets; the remainder not yet on any pallet is undistributed.
type Part struct {
	id            kernel.UUID
	name          string
	routeID       kernel.UUID
	totalQuantity kernel.Quantity
	status        Status

	guard guard.ConstructorGuard
}

func NewPart(id kernel.UUID, name string, routeID kernel.UUID, totalQuantity kernel.Quantity) (*Part, error) {
	p := &Part{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setRouteID(routeID),
		p.setTotalQuantity(totalQuantity),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func RestorePart(
	id kernel.UUID,
	name string,
	routeID kernel.UUID,
	totalQuantity kernel.Quantity,
	status Status,
) (*Part, error) {
	p := &Part{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setRouteID(routeID),
		p.setTotalQuantity(totalQuantity),
		p.setStatus(status),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Part) Validate() error {
	if p == nil {
		return ErrPartIsNotConstructed
	}
	return p.guard.Validate(ErrPartIsNotConstructed)
}

func (p *Part) ID() kernel.UUID {
	return p.id
}

func (p *Part) Name() string {
	return p.name
}

func (p *Part) RouteID() kernel.UUID {
	return p.routeID
}

func (p *Part) TotalQuantity() kernel.Quantity {
	return p.totalQuantity
}

func (p *Part) Status() Status {
	return p.status
}

// Start moves a pending part into production. It reports whether the status changed.
func (p *Part) Start() bool {
	if p.status != Pending {
		return false
	}
	p.status = InProgress
	return true
}

// Complete marks the part completed. A pending part passes through InProgress.
// It reports whether the status changed.
func (p *Part) Complete() bool {
	if p.status == Completed {
		return false
	}
	p.status = Completed
	return true
}

// Undistributed is the quantity not yet held by a pallet or written off as a defect.
func (p *Part) Undistributed(allocated kernel.Quantity) kernel.Quantity {
	rest, err := p.totalQuantity.Sub(allocated)
	if err != nil {
		return kernel.ZeroQuantity()
	}
	return rest
}

// EnsureCanAllocate fails when q does not fit in the undistributed remainder.
func (p *Part) EnsureCanAllocate(allocated kernel.Quantity, q kernel.Quantity) error {
	if !q.IsPositive() {
		return errs.NewValueIsOutOfRangeError("quantity", q.String(), "greater than 0", p.totalQuantity.String())
	}
	rest := p.Undistributed(allocated)
	if q.GreaterThan(rest) {
		return errs.NewRuleViolationError(RuleOverAllocation,
			fmt.Sprintf("part %s has %s undistributed, requested %s", p.id, rest, q))
	}
	return nil
}

func (p *Part) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Part) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Part) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("routeID", err)
	}
	p.routeID = routeID
	return nil
}

func (p *Part) setTotalQuantity(q kernel.Quantity) error {
	if !q.IsPositive() {
		return errs.NewValueIsOutOfRangeError("totalQuantity", q.String(), "greater than 0", "unbounded")
	}
	p.totalQuantity = q
	return nil
}

func (p *Part) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.status = s
	return nil
}
