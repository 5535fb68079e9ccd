// Package commands contains the routing operations that modify production state.
// Every handler validates its command, runs inside one unit of work and publishes
// the events it collected only after the transaction has committed.
package commands

import (
	"context"

	"production/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	MachineRepoFactory interface {
		MachineRepository() ports.MachineRepository
	}

	PartRepoFactory interface {
		PartRepository() ports.PartRepository
	}

	PalletRepoFactory interface {
		PalletRepository() ports.PalletRepository
	}

	StageProgressRepoFactory interface {
		StageProgressRepository() ports.StageProgressRepository
	}

	PartRouteProgressRepoFactory interface {
		PartRouteProgressRepository() ports.PartRouteProgressRepository
	}

	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	CellRepoFactory interface {
		CellRepository() ports.CellRepository
	}

	ReclamationRepoFactory interface {
		ReclamationRepository() ports.ReclamationRepository
	}

	// BufferUoW manages transactions for operations that only touch buffer cells.
	BufferUoW interface {
		TxManager
		CellRepoFactory
	}

	// BufferUoWFactory creates new buffer unit of work instances.
	BufferUoWFactory interface {
		Create() BufferUoW
	}

	// UoW manages transactions across every routing aggregate.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   pallet, err := uow.PalletRepository().GetForUpdate(ctx, id)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		RouteRepoFactory
		MachineRepoFactory
		PartRepoFactory
		PalletRepoFactory
		StageProgressRepoFactory
		PartRouteProgressRepoFactory
		AssignmentRepoFactory
		CellRepoFactory
		ReclamationRepoFactory
	}

	// UoWFactory creates new unit of work instances for routing operations.
	UoWFactory interface {
		Create() UoW
	}
)
