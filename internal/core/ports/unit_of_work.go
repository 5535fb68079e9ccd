package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes every repository it hands out to one database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	RouteRepository() RouteRepository

	MachineRepository() MachineRepository

	PartRepository() PartRepository

	PalletRepository() PalletRepository

	StageProgressRepository() StageProgressRepository

	PartRouteProgressRepository() PartRouteProgressRepository

	AssignmentRepository() AssignmentRepository

	CellRepository() CellRepository

	ReclamationRepository() ReclamationRepository
}
