package pallet

import (
	"errors"
	"fmt"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

const (
	// RuleInsufficientQuantity is reported when a deduction exceeds what the pallet carries.
	RuleInsufficientQuantity = "InsufficientQuantity"
	// RulePartMismatch is reported when quantity would move between pallets of different parts.
	RulePartMismatch = "PartMismatch"
)

var ErrPalletIsNotConstructed = errors.New("Pallet must be created via NewPallet constructor")

// Pallet is a physical batch of one part's quantity. It belongs to the same part
// for its whole life and is deleted once its quantity reaches zero.
type Pallet struct {
	id       kernel.UUID
	partID   kernel.UUID
	number   int
	quantity kernel.Quantity

	guard guard.ConstructorGuard
}

// NewPallet creates a pallet carrying a positive quantity. number is the
// human-facing pallet number within the part.
func NewPallet(id kernel.UUID, partID kernel.UUID, number int, quantity kernel.Quantity) (*Pallet, error) {
	p := &Pallet{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setPartID(partID),
		p.setNumber(number),
		p.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	if !quantity.IsPositive() {
		return nil, errs.NewValueIsOutOfRangeError("quantity", quantity.String(), "greater than 0", "unbounded")
	}

	return p, nil
}

// RestorePallet rebuilds a pallet loaded from storage.
func RestorePallet(id kernel.UUID, partID kernel.UUID, number int, quantity kernel.Quantity) (*Pallet, error) {
	p := &Pallet{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setPartID(partID),
		p.setNumber(number),
		p.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Pallet) Validate() error {
	if p == nil {
		return ErrPalletIsNotConstructed
	}
	return p.guard.Validate(ErrPalletIsNotConstructed)
}

func (p *Pallet) IsEqual(other *Pallet) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Pallet) ID() kernel.UUID {
	return p.id
}

func (p *Pallet) PartID() kernel.UUID {
	return p.partID
}

func (p *Pallet) Number() int {
	return p.number
}

func (p *Pallet) Quantity() kernel.Quantity {
	return p.quantity
}

// EnsureSamePart fails with PartMismatch unless other carries the same part.
func (p *Pallet) EnsureSamePart(other *Pallet) error {
	if !p.partID.IsEqual(other.partID) {
		return errs.NewRuleViolationError(RulePartMismatch,
			fmt.Sprintf("pallet %s carries part %s, pallet %s carries part %s", p.id, p.partID, other.id, other.partID))
	}
	return nil
}

func (p *Pallet) IsEmpty() bool {
	return p.quantity.IsZero()
}

// Add merges q into the pallet.
func (p *Pallet) Add(q kernel.Quantity) error {
	if !q.IsPositive() {
		return errs.NewValueIsOutOfRangeError("quantity", q.String(), "greater than 0", "unbounded")
	}
	p.quantity = p.quantity.Add(q)
	return nil
}

// Deduct removes q from the pallet. The pallet may end up empty; deleting it is
// the caller's job.
func (p *Pallet) Deduct(q kernel.Quantity) error {
	if !q.IsPositive() {
		return errs.NewValueIsOutOfRangeError("quantity", q.String(), "greater than 0", p.quantity.String())
	}
	if q.GreaterThan(p.quantity) {
		return errs.NewRuleViolationError(RuleInsufficientQuantity,
			fmt.Sprintf("pallet %s carries %s, requested %s", p.id, p.quantity, q))
	}
	rest, err := p.quantity.Sub(q)
	if err != nil {
		return err
	}
	p.quantity = rest
	return nil
}

func (p *Pallet) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Pallet) setPartID(partID kernel.UUID) error {
	if err := partID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partID", err)
	}
	p.partID = partID
	return nil
}

func (p *Pallet) setNumber(number int) error {
	if number <= 0 {
		return errs.NewValueIsOutOfRangeError("number", number, 1, "unbounded")
	}
	p.number = number
	return nil
}

func (p *Pallet) setQuantity(q kernel.Quantity) error {
	if _, err := kernel.QuantityFromDecimal(q.Decimal()); err != nil {
		return err
	}
	p.quantity = q
	return nil
}
