package routerepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/route"

	"gorm.io/gorm"
)

// GormRouteRepository reads routes. Routes are reference data and are never
// locked by routing operations.
type GormRouteRepository struct {
	db *gorm.DB
}

func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// Add stores a route with all of its stages.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

// Get loads a route with its stages in sequence order.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_number")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgutil.Translate(err, "route", id.String())
	}

	return toDomain(dto)
}
