package buffer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

// Rules reported by the buffer ledger.
const (
	RuleCellFull        = "CellFull"
	RuleCellUnavailable = "CellUnavailable"
	RuleCellNotEmpty    = "CellNotEmpty"
)

var ErrCellIsNotConstructed = errors.New("Cell must be created via NewCell constructor")

// Cell is a capacity-limited holding location. It carries its open placements;
// load and status are always derived from them.
type Cell struct {
	id         kernel.UUID
	name       string
	capacity   int
	reserved   bool
	storedLoad int
	placements []*Placement
	removed    []*Placement

	guard guard.ConstructorGuard
}

func NewCell(id kernel.UUID, name string, capacity int) (*Cell, error) {
	return RestoreCell(id, name, capacity, false, 0, nil)
}

// RestoreCell rebuilds a cell with its open placements. storedLoad is the load
// last written to storage and is only used to detect drift.
func RestoreCell(
	id kernel.UUID,
	name string,
	capacity int,
	reserved bool,
	storedLoad int,
	openPlacements []*Placement,
) (*Cell, error) {
	c := &Cell{
		reserved:   reserved,
		storedLoad: storedLoad,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setCapacity(capacity),
		c.setPlacements(openPlacements),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cell) Validate() error {
	if c == nil {
		return ErrCellIsNotConstructed
	}
	return c.guard.Validate(ErrCellIsNotConstructed)
}

func (c *Cell) ID() kernel.UUID {
	return c.id
}

func (c *Cell) Name() string {
	return c.name
}

func (c *Cell) Capacity() int {
	return c.capacity
}

func (c *Cell) IsReserved() bool {
	return c.reserved
}

// Load is the number of open placements.
func (c *Cell) Load() int {
	return len(c.placements)
}

// Status is RESERVED when reserved, OCCUPIED at or over capacity, else AVAILABLE.
func (c *Cell) Status() Status {
	switch {
	case c.reserved:
		return Reserved
	case c.Load() >= c.capacity:
		return Occupied
	default:
		return Available
	}
}

// Drifted reports whether the stored load disagrees with the open placements.
func (c *Cell) Drifted() bool {
	return c.storedLoad != c.Load()
}

// Synced records that the derived load has been written to storage.
func (c *Cell) Synced() {
	c.storedLoad = c.Load()
}

// Placements returns the open placements.
func (c *Cell) Placements() []*Placement {
	return slices.Clone(c.placements)
}

// Removed returns placements closed since the cell was loaded.
func (c *Cell) Removed() []*Placement {
	return slices.Clone(c.removed)
}

// Holds reports whether the pallet has an open placement in this cell.
func (c *Cell) Holds(palletID kernel.UUID) bool {
	return c.find(palletID) >= 0
}

// Place puts a pallet into the cell. Placing a pallet that is already here is a
// no-op and returns the existing placement with created=false.
func (c *Cell) Place(palletID kernel.UUID, at time.Time) (*Placement, bool, error) {
	if idx := c.find(palletID); idx >= 0 {
		return c.placements[idx], false, nil
	}

	if c.reserved {
		return nil, false, errs.NewConflictError(RuleCellUnavailable,
			fmt.Sprintf("cell %s is reserved", c.name))
	}
	if effective := c.Load() + 1; effective > c.capacity {
		return nil, false, errs.NewRuleViolationError(RuleCellFull,
			fmt.Sprintf("cell %s holds %d of %d", c.name, c.Load(), c.capacity))
	}

	p, err := NewPlacement(kernel.NewUUID(), palletID, c.id, at)
	if err != nil {
		return nil, false, err
	}
	c.placements = append(c.placements, p)
	return p, true, nil
}

// Remove closes the pallet's placement. It returns nil when the pallet is not here.
func (c *Cell) Remove(palletID kernel.UUID, at time.Time) *Placement {
	idx := c.find(palletID)
	if idx < 0 {
		return nil
	}
	p := c.placements[idx]
	p.close(at)
	c.placements = slices.Delete(c.placements, idx, idx+1)
	c.removed = append(c.removed, p)
	return p
}

// Reserve takes an empty cell out of circulation.
func (c *Cell) Reserve() error {
	if c.Load() > 0 {
		return errs.NewRuleViolationError(RuleCellNotEmpty,
			fmt.Sprintf("cell %s holds %d pallets", c.name, c.Load()))
	}
	c.reserved = true
	return nil
}

func (c *Cell) Release() {
	c.reserved = false
}

func (c *Cell) find(palletID kernel.UUID) int {
	return slices.IndexFunc(c.placements, func(p *Placement) bool {
		return p.PalletID().IsEqual(palletID)
	})
}

func (c *Cell) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Cell) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Cell) setCapacity(capacity int) error {
	if capacity < 1 {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, 1, "unbounded")
	}
	c.capacity = capacity
	return nil
}

func (c *Cell) setPlacements(placements []*Placement) error {
	seen := make(map[kernel.UUID]bool, len(placements))
	for _, p := range placements {
		if err := p.Validate(); err != nil {
			return err
		}
		if !p.IsOpen() {
			return errs.NewValueIsInvalidErrorWithCause("placements",
				fmt.Errorf("placement %s is closed", p.ID()))
		}
		if seen[p.PalletID()] {
			return errs.NewValueIsInvalidErrorWithCause("placements",
				fmt.Errorf("pallet %s placed twice", p.PalletID()))
		}
		seen[p.PalletID()] = true
	}
	c.placements = slices.Clone(placements)
	return nil
}
