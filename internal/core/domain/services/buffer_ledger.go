package services

import (
	"errors"
	"time"

	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
)

// PlaceResult describes what a placement changed.
type PlaceResult struct {
	// Placement is the pallet's open placement in the target cell.
	Placement *buffer.Placement
	// Created is false when the pallet was already in the target cell.
	Created bool
	// Vacated is the placement closed in the previous cell, if any.
	Vacated *buffer.Placement
}

// BufferLedger keeps cell capacity and the single open placement per pallet.
// Both cells passed in must be locked by the caller for the duration of the write.
type BufferLedger struct{}

func NewBufferLedger() BufferLedger {
	return BufferLedger{}
}

// Place moves palletID into target. current is the cell that currently holds the
// pallet, or nil. Nothing is changed when the target rejects the pallet.
func (BufferLedger) Place(palletID kernel.UUID, target *buffer.Cell, current *buffer.Cell, at time.Time) (PlaceResult, error) {
	if err := errors.Join(palletID.Validate(), target.Validate()); err != nil {
		return PlaceResult{}, err
	}

	placement, created, err := target.Place(palletID, at)
	if err != nil {
		return PlaceResult{}, err
	}

	result := PlaceResult{Placement: placement, Created: created}
	if current != nil && !current.ID().IsEqual(target.ID()) {
		result.Vacated = current.Remove(palletID, at)
	}
	return result, nil
}

// Evict closes the pallet's open placement in current. It returns nil when the
// pallet is not in a cell.
func (BufferLedger) Evict(palletID kernel.UUID, current *buffer.Cell, at time.Time) *buffer.Placement {
	if current == nil {
		return nil
	}
	return current.Remove(palletID, at)
}
