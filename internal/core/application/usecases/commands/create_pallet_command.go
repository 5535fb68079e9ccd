package commands

import (
	"errors"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/errs"
	"production/internal/pkg/guard"
)

var ErrCreatePalletCommandIsNotConstructed = errors.New(
	"CreatePalletCommand must be created via NewCreatePalletCommand constructor",
)

// CreatePalletCommand puts part of a part's undistributed quantity onto a new pallet.
type CreatePalletCommand struct {
	partID   kernel.UUID
	quantity kernel.Quantity

	guard guard.ConstructorGuard
}

func NewCreatePalletCommand(partID kernel.UUID, quantity kernel.Quantity) (CreatePalletCommand, error) {
	if err := partID.Validate(); err != nil {
		return CreatePalletCommand{}, errs.NewValueIsInvalidErrorWithCause("partID", err)
	}
	if !quantity.IsPositive() {
		return CreatePalletCommand{}, errs.NewValueIsOutOfRangeError("quantity", quantity.String(), "greater than 0", "unbounded")
	}

	return CreatePalletCommand{
		partID:   partID,
		quantity: quantity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c *CreatePalletCommand) Validate() error {
	return c.guard.Validate(ErrCreatePalletCommandIsNotConstructed)
}

func (c *CreatePalletCommand) PartID() kernel.UUID {
	return c.partID
}

func (c *CreatePalletCommand) Quantity() kernel.Quantity {
	return c.quantity
}
