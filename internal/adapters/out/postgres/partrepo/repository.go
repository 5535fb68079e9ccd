package partrepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/part"

	"gorm.io/gorm"
)

// GormPartRepository implements ports.PartRepository using GORM.
type GormPartRepository struct {
	db *gorm.DB
}

func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

func (r *GormPartRepository) Add(ctx context.Context, aggregate *part.Part) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormPartRepository) Update(ctx context.Context, aggregate *part.Part) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pgutil.Translate(gorm.ErrRecordNotFound, "part", aggregate.ID().String())
	}

	return nil
}

func (r *GormPartRepository) Get(ctx context.Context, id kernel.UUID) (*part.Part, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate serialises every routing operation touching the part's
// aggregates behind the part row.
func (r *GormPartRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*part.Part, error) {
	return r.get(ctx, r.db.Clauses(pgutil.ForUpdate), id)
}

func (r *GormPartRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*part.Part, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.Translate(err, "part", id.String())
	}

	return toDomain(dto)
}
