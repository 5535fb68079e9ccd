package reclamationrepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/reclamation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReclamationRepository implements ports.ReclamationRepository using GORM.
type GormReclamationRepository struct {
	db *gorm.DB
}

func NewGormReclamationRepository(db *gorm.DB) *GormReclamationRepository {
	return &GormReclamationRepository{db: db}
}

func (r *GormReclamationRepository) Add(ctx context.Context, aggregate *reclamation.Reclamation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormReclamationRepository) Get(ctx context.Context, id kernel.UUID) (*reclamation.Reclamation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReclamationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.Translate(err, "reclamation", id.String())
	}

	return toDomain(dto)
}

func (r *GormReclamationRepository) SumByPart(ctx context.Context, partID kernel.UUID) (kernel.Quantity, error) {
	if err := partID.Validate(); err != nil {
		return kernel.Quantity{}, err
	}

	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&ReclamationDTO{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("part_id = ?", partID.Bytes()).
		Scan(&sum).Error
	if err != nil {
		return kernel.Quantity{}, err
	}

	return kernel.QuantityFromDecimal(sum)
}
