package progress

import (
	"errors"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/guard"
)

var ErrPartRouteProgressIsNotConstructed = errors.New(
	"PartRouteProgress must be created via NewPartRouteProgress constructor")

// PartRouteProgress aggregates every pallet of a part on one route stage.
// It is recomputed from pallet rows, never set by hand.
type PartRouteProgress struct {
	id           kernel.UUID
	partID       kernel.UUID
	routeStageID kernel.UUID
	status       Status
	completedAt  *time.Time

	guard guard.ConstructorGuard
}

func NewPartRouteProgress(id kernel.UUID, partID kernel.UUID, routeStageID kernel.UUID) (*PartRouteProgress, error) {
	return RestorePartRouteProgress(id, partID, routeStageID, NotProcessed, nil)
}

func RestorePartRouteProgress(
	id kernel.UUID,
	partID kernel.UUID,
	routeStageID kernel.UUID,
	status Status,
	completedAt *time.Time,
) (*PartRouteProgress, error) {
	if err := errors.Join(
		id.Validate(),
		partID.Validate(),
		routeStageID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &PartRouteProgress{
		id:           id,
		partID:       partID,
		routeStageID: routeStageID,
		status:       status,
		completedAt:  completedAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (p *PartRouteProgress) Validate() error {
	if p == nil {
		return ErrPartRouteProgressIsNotConstructed
	}
	return p.guard.Validate(ErrPartRouteProgressIsNotConstructed)
}

func (p *PartRouteProgress) ID() kernel.UUID {
	return p.id
}

func (p *PartRouteProgress) PartID() kernel.UUID {
	return p.partID
}

func (p *PartRouteProgress) RouteStageID() kernel.UUID {
	return p.routeStageID
}

func (p *PartRouteProgress) Status() Status {
	return p.status
}

func (p *PartRouteProgress) CompletedAt() *time.Time {
	return p.completedAt
}

// Apply sets the recomputed status and reports whether anything changed.
// completedAt keeps the first completion time while the aggregate stays COMPLETED.
func (p *PartRouteProgress) Apply(status Status, at time.Time) (bool, error) {
	if err := status.Validate(); err != nil {
		return false, err
	}
	if status == p.status {
		return false, nil
	}

	p.status = status
	if status == Completed {
		p.completedAt = &at
	} else {
		p.completedAt = nil
	}
	return true, nil
}
