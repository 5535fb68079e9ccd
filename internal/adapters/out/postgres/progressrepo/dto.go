// Package progressrepo persists per-pallet stage progress and the per-part
// stage aggregates derived from it.
package progressrepo

import (
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/progress"

	"github.com/google/uuid"
)

type StageProgressDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PalletID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stage_progress_pallet_stage"`
	RouteStageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stage_progress_pallet_stage"`
	Status       string    `gorm:"type:varchar(32);not null"`
	CompletedAt  *time.Time
}

func (StageProgressDTO) TableName() string {
	return "pallet_stage_progress"
}

type PartRouteProgressDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_route_progress_part_stage"`
	RouteStageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_part_route_progress_part_stage"`
	Status       string    `gorm:"type:varchar(32);not null"`
	CompletedAt  *time.Time
}

func (PartRouteProgressDTO) TableName() string {
	return "part_route_progress"
}

func stageFromDomain(p *progress.StageProgress) StageProgressDTO {
	return StageProgressDTO{
		ID:           p.ID().Bytes(),
		PalletID:     p.PalletID().Bytes(),
		RouteStageID: p.RouteStageID().Bytes(),
		Status:       p.Status().String(),
		CompletedAt:  p.CompletedAt(),
	}
}

func stageToDomain(dto StageProgressDTO) (*progress.StageProgress, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	palletID, err := kernel.UUIDFromBytes(dto.PalletID[:])
	if err != nil {
		return nil, err
	}
	routeStageID, err := kernel.UUIDFromBytes(dto.RouteStageID[:])
	if err != nil {
		return nil, err
	}
	status, err := progress.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return progress.RestoreStageProgress(id, palletID, routeStageID, status, utc(dto.CompletedAt))
}

func partFromDomain(p *progress.PartRouteProgress) PartRouteProgressDTO {
	return PartRouteProgressDTO{
		ID:           p.ID().Bytes(),
		PartID:       p.PartID().Bytes(),
		RouteStageID: p.RouteStageID().Bytes(),
		Status:       p.Status().String(),
		CompletedAt:  p.CompletedAt(),
	}
}

func partToDomain(dto PartRouteProgressDTO) (*progress.PartRouteProgress, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partID, err := kernel.UUIDFromBytes(dto.PartID[:])
	if err != nil {
		return nil, err
	}
	routeStageID, err := kernel.UUIDFromBytes(dto.RouteStageID[:])
	if err != nil {
		return nil, err
	}
	status, err := progress.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return progress.RestorePartRouteProgress(id, partID, routeStageID, status, utc(dto.CompletedAt))
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
