// Package reclamationrepo persists defect reports.
package reclamationrepo

import (
	"time"

	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/reclamation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReclamationDTO keeps the pallet id after the pallet itself is deleted, so
// pallet_id carries no foreign key.
type ReclamationDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PalletID     *uuid.UUID      `gorm:"type:uuid;index"`
	RouteStageID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status       string          `gorm:"type:varchar(32);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

func (ReclamationDTO) TableName() string {
	return "reclamations"
}

func fromDomain(r *reclamation.Reclamation) ReclamationDTO {
	var palletID *uuid.UUID
	if r.PalletID() != nil {
		raw := r.PalletID().Bytes()
		palletID = &raw
	}

	return ReclamationDTO{
		ID:           r.ID().Bytes(),
		PartID:       r.PartID().Bytes(),
		PalletID:     palletID,
		RouteStageID: r.RouteStageID().Bytes(),
		Quantity:     r.Quantity().Decimal(),
		Status:       r.Status().String(),
		CreatedAt:    r.CreatedAt(),
	}
}

func toDomain(dto ReclamationDTO) (*reclamation.Reclamation, error) {
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

	var palletID *kernel.UUID
	if dto.PalletID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.PalletID)[:])
		if pErr != nil {
			return nil, pErr
		}
		palletID = &pID
	}

	quantity, err := kernel.QuantityFromDecimal(dto.Quantity)
	if err != nil {
		return nil, err
	}
	status, err := reclamation.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return reclamation.RestoreReclamation(id, partID, palletID, routeStageID, quantity, status, dto.CreatedAt.UTC())
}
