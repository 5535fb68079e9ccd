// Package partrepo persists parts, the unit of work moving along a route.
package partrepo

import (
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/part"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PartDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(255);not null"`
	RouteID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status        string          `gorm:"type:varchar(32);not null;index"`
}

func (PartDTO) TableName() string {
	return "parts"
}

func fromDomain(p *part.Part) PartDTO {
	return PartDTO{
		ID:            p.ID().Bytes(),
		Name:          p.Name(),
		RouteID:       p.RouteID().Bytes(),
		TotalQuantity: p.TotalQuantity().Decimal(),
		Status:        p.Status().String(),
	}
}

func toDomain(dto PartDTO) (*part.Part, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	routeID, err := kernel.UUIDFromBytes(dto.RouteID[:])
	if err != nil {
		return nil, err
	}
	total, err := kernel.QuantityFromDecimal(dto.TotalQuantity)
	if err != nil {
		return nil, err
	}
	status, err := part.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return part.RestorePart(id, dto.Name, routeID, total, status)
}
