package http

import (
	"context"

	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/reclamation"
)

// Use cases the server dispatches to.
type (
	CreatePalletHandler interface {
		Handle(ctx context.Context, command commands.CreatePalletCommand) (*pallet.Pallet, error)
	}

	AssignPalletHandler interface {
		Handle(ctx context.Context, command commands.AssignPalletCommand) (*machine.Assignment, error)
	}

	StartProcessingHandler interface {
		Handle(ctx context.Context, command commands.StartProcessingCommand) (*machine.Assignment, error)
	}

	CompleteProcessingHandler interface {
		Handle(ctx context.Context, command commands.CompleteProcessingCommand) error
	}

	MoveToBufferHandler interface {
		Handle(ctx context.Context, command commands.MoveToBufferCommand) (*buffer.Placement, error)
	}

	MoveToMachineHandler interface {
		Handle(ctx context.Context, command commands.MoveToMachineCommand) (*machine.Assignment, error)
	}

	RedistributeHandler interface {
		Handle(ctx context.Context, command commands.RedistributeCommand) (commands.RedistributeResult, error)
	}

	ReportDefectHandler interface {
		Handle(ctx context.Context, command commands.ReportDefectCommand) (*reclamation.Reclamation, error)
	}

	SetCellReservationHandler interface {
		Handle(ctx context.Context, command commands.SetCellReservationCommand) (*buffer.Cell, error)
	}

	ReconcileBufferHandler interface {
		Handle(ctx context.Context, command commands.ReconcileBufferCommand) (commands.ReconcileResult, error)
	}

	GetPalletsByPartHandler interface {
		Handle(ctx context.Context, query queries.GetPalletsByPartQuery) ([]queries.GetPalletsByPartQueryResponse, error)
	}

	GetOpenAssignmentsByMachineHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetOpenAssignmentsByMachineQuery,
		) ([]queries.GetOpenAssignmentsByMachineQueryResponse, error)
	}

	GetBufferOccupancyHandler interface {
		Handle(ctx context.Context, query queries.GetBufferOccupancyQuery) ([]queries.GetBufferOccupancyQueryResponse, error)
	}
)

// Handlers groups every use case the server exposes.
type Handlers struct {
	CreatePallet       CreatePalletHandler
	AssignPallet       AssignPalletHandler
	StartProcessing    StartProcessingHandler
	CompleteProcessing CompleteProcessingHandler
	MoveToBuffer       MoveToBufferHandler
	MoveToMachine      MoveToMachineHandler
	Redistribute       RedistributeHandler
	ReportDefect       ReportDefectHandler
	SetCellReservation SetCellReservationHandler
	ReconcileBuffer    ReconcileBufferHandler

	GetPalletsByPart            GetPalletsByPartHandler
	GetOpenAssignmentsByMachine GetOpenAssignmentsByMachineHandler
	GetBufferOccupancy          GetBufferOccupancyHandler
}
