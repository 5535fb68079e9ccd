package progress

import (
	"errors"
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/guard"
)

var ErrStageProgressIsNotConstructed = errors.New("StageProgress must be created via NewStageProgress constructor")

// StageProgress is the status of one pallet on one route stage. There is at most
// one row per (pallet, route stage); rows are created lazily on first touch.
type StageProgress struct {
	id           kernel.UUID
	palletID     kernel.UUID
	routeStageID kernel.UUID
	status       Status
	completedAt  *time.Time

	guard guard.ConstructorGuard
}

// NewStageProgress creates a NOT_PROCESSED row.
func NewStageProgress(id kernel.UUID, palletID kernel.UUID, routeStageID kernel.UUID) (*StageProgress, error) {
	return RestoreStageProgress(id, palletID, routeStageID, NotProcessed, nil)
}

func RestoreStageProgress(
	id kernel.UUID,
	palletID kernel.UUID,
	routeStageID kernel.UUID,
	status Status,
	completedAt *time.Time,
) (*StageProgress, error) {
	if err := errors.Join(
		id.Validate(),
		palletID.Validate(),
		routeStageID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &StageProgress{
		id:           id,
		palletID:     palletID,
		routeStageID: routeStageID,
		status:       status,
		completedAt:  completedAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (p *StageProgress) Validate() error {
	if p == nil {
		return ErrStageProgressIsNotConstructed
	}
	return p.guard.Validate(ErrStageProgressIsNotConstructed)
}

func (p *StageProgress) ID() kernel.UUID {
	return p.id
}

func (p *StageProgress) PalletID() kernel.UUID {
	return p.palletID
}

func (p *StageProgress) RouteStageID() kernel.UUID {
	return p.routeStageID
}

func (p *StageProgress) Status() Status {
	return p.status
}

func (p *StageProgress) CompletedAt() *time.Time {
	return p.completedAt
}

func (p *StageProgress) IsCompleted() bool {
	return p.status == Completed
}

func (p *StageProgress) copyFor(palletID kernel.UUID, status Status) *StageProgress {
	var completedAt *time.Time
	if status == Completed && p.completedAt != nil {
		at := *p.completedAt
		completedAt = &at
	}
	return &StageProgress{
		id:           kernel.NewUUID(),
		palletID:     palletID,
		routeStageID: p.routeStageID,
		status:       status,
		completedAt:  completedAt,
		guard:        guard.NewConstructorGuard(),
	}
}
