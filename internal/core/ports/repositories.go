package ports

import (
	"context"

	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/progress"
	"production/internal/core/domain/model/reclamation"
	"production/internal/core/domain/model/route"
)

// Lookups return errs.ObjectNotFoundError when nothing matches. Methods named
// ...ForUpdate take a row lock held until the surrounding transaction ends.

type RouteRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
}

type MachineRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*machine.Machine, error)
}

type PartRepository interface {
	Add(ctx context.Context, aggregate *part.Part) error

	Update(ctx context.Context, aggregate *part.Part) error

	Get(ctx context.Context, id kernel.UUID) (*part.Part, error)

	GetForUpdate(ctx context.Context, id kernel.UUID) (*part.Part, error)
}

type PalletRepository interface {
	Add(ctx context.Context, aggregate *pallet.Pallet) error

	Update(ctx context.Context, aggregate *pallet.Pallet) error

	Delete(ctx context.Context, id kernel.UUID) error

	Get(ctx context.Context, id kernel.UUID) (*pallet.Pallet, error)

	GetForUpdate(ctx context.Context, id kernel.UUID) (*pallet.Pallet, error)

	ListByPart(ctx context.Context, partID kernel.UUID) ([]*pallet.Pallet, error)

	// NextNumber is one past the highest pallet number used by the part.
	NextNumber(ctx context.Context, partID kernel.UUID) (int, error)
}

type StageProgressRepository interface {
	Add(ctx context.Context, rows ...*progress.StageProgress) error

	Update(ctx context.Context, rows ...*progress.StageProgress) error

	ListByPallet(ctx context.Context, palletID kernel.UUID) ([]*progress.StageProgress, error)

	ListByPallets(ctx context.Context, palletIDs []kernel.UUID) ([]*progress.StageProgress, error)

	DeleteByPallet(ctx context.Context, palletID kernel.UUID) error
}

type PartRouteProgressRepository interface {
	Add(ctx context.Context, rows ...*progress.PartRouteProgress) error

	Update(ctx context.Context, rows ...*progress.PartRouteProgress) error

	ListByPart(ctx context.Context, partID kernel.UUID) ([]*progress.PartRouteProgress, error)
}

type AssignmentRepository interface {
	Add(ctx context.Context, aggregate *machine.Assignment) error

	Update(ctx context.Context, aggregate *machine.Assignment) error

	GetOpenByPallet(ctx context.Context, palletID kernel.UUID) (*machine.Assignment, error)

	// GetLatestByPallet returns the most recently opened assignment, open or closed.
	GetLatestByPallet(ctx context.Context, palletID kernel.UUID) (*machine.Assignment, error)
}

type CellRepository interface {
	Add(ctx context.Context, aggregate *buffer.Cell) error

	// Update writes the cell's derived load and status together with new and
	// closed placements.
	Update(ctx context.Context, aggregate *buffer.Cell) error

	GetForUpdate(ctx context.Context, id kernel.UUID) (*buffer.Cell, error)

	// GetIDByPallet finds the cell holding the pallet's open placement without
	// locking it, so callers can lock several cells in a stable order.
	GetIDByPallet(ctx context.Context, palletID kernel.UUID) (kernel.UUID, error)

	ListForUpdate(ctx context.Context) ([]*buffer.Cell, error)
}

type ReclamationRepository interface {
	Add(ctx context.Context, aggregate *reclamation.Reclamation) error

	// SumByPart totals every reclamation registered against the part.
	SumByPart(ctx context.Context, partID kernel.UUID) (kernel.Quantity, error)
}
