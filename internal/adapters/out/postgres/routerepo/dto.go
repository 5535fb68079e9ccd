// Package routerepo maps routes and their ordered stages to the routes and
// route_stages tables.
package routerepo

import (
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/route"

	"github.com/google/uuid"
)

type RouteDTO struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name   string          `gorm:"type:varchar(255);not null"`
	Stages []RouteStageDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

func (RouteDTO) TableName() string {
	return "routes"
}

type RouteStageDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RouteID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_route_stages_sequence"`
	SequenceNumber int        `gorm:"type:int;not null;uniqueIndex:idx_route_stages_sequence"`
	StageID        uuid.UUID  `gorm:"type:uuid;not null"`
	SubStageID     *uuid.UUID `gorm:"type:uuid"`
	StageName      string     `gorm:"type:varchar(255);not null"`
	IsFinal        bool       `gorm:"not null;default:false"`
}

func (RouteStageDTO) TableName() string {
	return "route_stages"
}

func fromDomain(r *route.Route) RouteDTO {
	routeID := r.ID().Bytes()
	stages := make([]RouteStageDTO, 0, len(r.Stages()))
	for _, s := range r.Stages() {
		var subStageID *uuid.UUID
		if s.SubStageID() != nil {
			raw := s.SubStageID().Bytes()
			subStageID = &raw
		}
		stages = append(stages, RouteStageDTO{
			ID:             s.ID().Bytes(),
			RouteID:        routeID,
			SequenceNumber: s.SequenceNumber(),
			StageID:        s.StageID().Bytes(),
			SubStageID:     subStageID,
			StageName:      s.StageName(),
			IsFinal:        s.IsFinal(),
		})
	}

	return RouteDTO{
		ID:     routeID,
		Name:   r.Name(),
		Stages: stages,
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stages := make([]*route.RouteStage, 0, len(dto.Stages))
	for _, s := range dto.Stages {
		stage, stageErr := stageToDomain(s)
		if stageErr != nil {
			return nil, stageErr
		}
		stages = append(stages, stage)
	}

	return route.NewRoute(id, dto.Name, stages)
}

func stageToDomain(dto RouteStageDTO) (*route.RouteStage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	stageID, err := kernel.UUIDFromBytes(dto.StageID[:])
	if err != nil {
		return nil, err
	}

	var subStageID *kernel.UUID
	if dto.SubStageID != nil {
		sID, subErr := kernel.UUIDFromBytes((*dto.SubStageID)[:])
		if subErr != nil {
			return nil, subErr
		}
		subStageID = &sID
	}

	return route.NewRouteStage(id, dto.SequenceNumber, stageID, subStageID, dto.StageName, dto.IsFinal)
}
