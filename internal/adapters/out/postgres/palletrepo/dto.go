// Package palletrepo persists pallets. Pallet numbers are unique per part.
package palletrepo

import (
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/pallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PalletDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pallets_part_number"`
	Number   int             `gorm:"type:int;not null;uniqueIndex:idx_pallets_part_number"`
	Quantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

func (PalletDTO) TableName() string {
	return "pallets"
}

func fromDomain(p *pallet.Pallet) PalletDTO {
	return PalletDTO{
		ID:       p.ID().Bytes(),
		PartID:   p.PartID().Bytes(),
		Number:   p.Number(),
		Quantity: p.Quantity().Decimal(),
	}
}

func toDomain(dto PalletDTO) (*pallet.Pallet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partID, err := kernel.UUIDFromBytes(dto.PartID[:])
	if err != nil {
		return nil, err
	}
	quantity, err := kernel.QuantityFromDecimal(dto.Quantity)
	if err != nil {
		return nil, err
	}

	return pallet.RestorePallet(id, partID, dto.Number, quantity)
}
