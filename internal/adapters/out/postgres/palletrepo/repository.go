package palletrepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/pallet"

	"gorm.io/gorm"
)

// GormPalletRepository implements ports.PalletRepository using GORM.
type GormPalletRepository struct {
	db *gorm.DB
}

func NewGormPalletRepository(db *gorm.DB) *GormPalletRepository {
	return &GormPalletRepository{db: db}
}

func (r *GormPalletRepository) Add(ctx context.Context, aggregate *pallet.Pallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormPalletRepository) Update(ctx context.Context, aggregate *pallet.Pallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pgutil.Translate(gorm.ErrRecordNotFound, "pallet", aggregate.ID().String())
	}

	return nil
}

func (r *GormPalletRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&PalletDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pgutil.Translate(gorm.ErrRecordNotFound, "pallet", id.String())
	}

	return nil
}

func (r *GormPalletRepository) Get(ctx context.Context, id kernel.UUID) (*pallet.Pallet, error) {
	return r.get(ctx, r.db, id)
}

func (r *GormPalletRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*pallet.Pallet, error) {
	return r.get(ctx, r.db.Clauses(pgutil.ForUpdate), id)
}

func (r *GormPalletRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*pallet.Pallet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PalletDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.Translate(err, "pallet", id.String())
	}

	return toDomain(dto)
}

// ListByPart returns the part's pallets ordered by number.
func (r *GormPalletRepository) ListByPart(ctx context.Context, partID kernel.UUID) ([]*pallet.Pallet, error) {
	if err := partID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PalletDTO
	if err := r.db.WithContext(ctx).Where("part_id = ?", partID.Bytes()).Order("number").Find(&dtos).Error; err != nil {
		return nil, err
	}

	pallets := make([]*pallet.Pallet, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		pallets = append(pallets, p)
	}

	return pallets, nil
}

func (r *GormPalletRepository) NextNumber(ctx context.Context, partID kernel.UUID) (int, error) {
	if err := partID.Validate(); err != nil {
		return 0, err
	}

	var next int
	err := r.db.WithContext(ctx).
		Model(&PalletDTO{}).
		Select("COALESCE(MAX(number), 0) + 1").
		Where("part_id = ?", partID.Bytes()).
		Scan(&next).Error
	if err != nil {
		return 0, err
	}

	return next, nil
}
