package progressrepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/progress"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStageProgressRepository implements ports.StageProgressRepository using GORM.
type GormStageProgressRepository struct {
	db *gorm.DB
}

func NewGormStageProgressRepository(db *gorm.DB) *GormStageProgressRepository {
	return &GormStageProgressRepository{db: db}
}

func (r *GormStageProgressRepository) Add(ctx context.Context, rows ...*progress.StageProgress) error {
	dtos := make([]StageProgressDTO, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, stageFromDomain(row))
	}
	if len(dtos) == 0 {
		return nil
	}

	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dtos).Error)
}

func (r *GormStageProgressRepository) Update(ctx context.Context, rows ...*progress.StageProgress) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}

		dto := stageFromDomain(row)
		result := r.db.WithContext(ctx).Save(&dto)
		if result.Error != nil {
			return pgutil.Wrap(result.Error)
		}
		if result.RowsAffected == 0 {
			return pgutil.Translate(gorm.ErrRecordNotFound, "stage progress", row.ID().String())
		}
	}
	return nil
}

func (r *GormStageProgressRepository) ListByPallet(ctx context.Context, palletID kernel.UUID) ([]*progress.StageProgress, error) {
	return r.ListByPallets(ctx, []kernel.UUID{palletID})
}

func (r *GormStageProgressRepository) ListByPallets(ctx context.Context, palletIDs []kernel.UUID) ([]*progress.StageProgress, error) {
	ids := make([]uuid.UUID, 0, len(palletIDs))
	for _, id := range palletIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		ids = append(ids, id.Bytes())
	}

	var dtos []StageProgressDTO
	if err := r.db.WithContext(ctx).Where("pallet_id IN ?", ids).Find(&dtos).Error; err != nil {
		return nil, err
	}

	rows := make([]*progress.StageProgress, 0, len(dtos))
	for _, dto := range dtos {
		row, err := stageToDomain(dto)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *GormStageProgressRepository) DeleteByPallet(ctx context.Context, palletID kernel.UUID) error {
	if err := palletID.Validate(); err != nil {
		return err
	}

	return pgutil.Wrap(r.db.WithContext(ctx).Delete(&StageProgressDTO{}, "pallet_id = ?", palletID.Bytes()).Error)
}

// GormPartRouteProgressRepository implements ports.PartRouteProgressRepository using GORM.
type GormPartRouteProgressRepository struct {
	db *gorm.DB
}

func NewGormPartRouteProgressRepository(db *gorm.DB) *GormPartRouteProgressRepository {
	return &GormPartRouteProgressRepository{db: db}
}

func (r *GormPartRouteProgressRepository) Add(ctx context.Context, rows ...*progress.PartRouteProgress) error {
	dtos := make([]PartRouteProgressDTO, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, partFromDomain(row))
	}
	if len(dtos) == 0 {
		return nil
	}

	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dtos).Error)
}

func (r *GormPartRouteProgressRepository) Update(ctx context.Context, rows ...*progress.PartRouteProgress) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}

		dto := partFromDomain(row)
		result := r.db.WithContext(ctx).Save(&dto)
		if result.Error != nil {
			return pgutil.Wrap(result.Error)
		}
		if result.RowsAffected == 0 {
			return pgutil.Translate(gorm.ErrRecordNotFound, "part route progress", row.ID().String())
		}
	}
	return nil
}

func (r *GormPartRouteProgressRepository) ListByPart(ctx context.Context, partID kernel.UUID) ([]*progress.PartRouteProgress, error) {
	if err := partID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PartRouteProgressDTO
	if err := r.db.WithContext(ctx).Where("part_id = ?", partID.Bytes()).Find(&dtos).Error; err != nil {
		return nil, err
	}

	rows := make([]*progress.PartRouteProgress, 0, len(dtos))
	for _, dto := range dtos {
		row, err := partToDomain(dto)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
