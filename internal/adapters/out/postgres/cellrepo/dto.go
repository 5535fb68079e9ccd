// Package cellrepo persists buffer cells and the placements of pallets in them.
// A cell row carries its last written load and status; the open placements are
// the source of truth for both.
package cellrepo

import (
	"time"

	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CellDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name       string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Capacity   int            `gorm:"type:int;not null"`
	Reserved   bool           `gorm:"not null;default:false"`
	Load       int            `gorm:"type:int;not null;default:0"`
	Status     string         `gorm:"type:varchar(32);not null"`
	Placements []PlacementDTO `gorm:"foreignKey:CellID;constraint:OnDelete:CASCADE"`
}

func (CellDTO) TableName() string {
	return "buffer_cells"
}

// PlacementDTO is one stay of a pallet in a cell. The partial unique index
// keeps a pallet in at most one cell at a time.
type PlacementDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CellID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PalletID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_placements_open_pallet,where:removed_at IS NULL"`
	PlacedAt  time.Time `gorm:"not null"`
	RemovedAt *time.Time
}

func (PlacementDTO) TableName() string {
	return "buffer_placements"
}

// fromDomain maps the cell row only. Placements are written separately so a
// save never rewrites placement history.
func fromDomain(c *buffer.Cell) CellDTO {
	return CellDTO{
		ID:       c.ID().Bytes(),
		Name:     c.Name(),
		Capacity: c.Capacity(),
		Reserved: c.IsReserved(),
		Load:     c.Load(),
		Status:   c.Status().String(),
	}
}

func placementFromDomain(p *buffer.Placement) PlacementDTO {
	return PlacementDTO{
		ID:        p.ID().Bytes(),
		CellID:    p.CellID().Bytes(),
		PalletID:  p.PalletID().Bytes(),
		PlacedAt:  p.PlacedAt(),
		RemovedAt: p.RemovedAt(),
	}
}

// toDomain expects dto.Placements to hold only the open placements.
func toDomain(dto CellDTO) (*buffer.Cell, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	placements := make([]*buffer.Placement, 0, len(dto.Placements))
	for _, pDto := range dto.Placements {
		p, pErr := placementToDomain(pDto)
		if pErr != nil {
			return nil, pErr
		}
		placements = append(placements, p)
	}

	return buffer.RestoreCell(id, dto.Name, dto.Capacity, dto.Reserved, dto.Load, placements)
}

func placementToDomain(dto PlacementDTO) (*buffer.Placement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	cellID, err := kernel.UUIDFromBytes(dto.CellID[:])
	if err != nil {
		return nil, err
	}
	palletID, err := kernel.UUIDFromBytes(dto.PalletID[:])
	if err != nil {
		return nil, err
	}

	var removedAt *time.Time
	if dto.RemovedAt != nil {
		v := dto.RemovedAt.UTC()
		removedAt = &v
	}

	return buffer.RestorePlacement(id, palletID, cellID, dto.PlacedAt.UTC(), removedAt)
}
