package commands

import (
	"errors"

	"production/internal/pkg/guard"
)

var ErrReconcileBufferCommandIsNotConstructed = errors.New(
	"ReconcileBufferCommand must be created via NewReconcileBufferCommand constructor",
)

// ReconcileBufferCommand rewrites every cell's stored load and status from its
// open placements.
type ReconcileBufferCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcileBufferCommand() ReconcileBufferCommand {
	return ReconcileBufferCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ReconcileBufferCommand) Validate() error {
	return c.guard.Validate(ErrReconcileBufferCommandIsNotConstructed)
}
