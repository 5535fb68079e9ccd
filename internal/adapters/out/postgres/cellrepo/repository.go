package cellrepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reconcileLockKey names the transaction-scoped advisory lock taken by
// ListForUpdate, so that only one instance reconciles the buffer at a time.
const reconcileLockKey int64 = 0x62756666 // "buff"

// GormCellRepository implements ports.CellRepository using GORM.
type GormCellRepository struct {
	db *gorm.DB
}

func NewGormCellRepository(db *gorm.DB) *GormCellRepository {
	return &GormCellRepository{db: db}
}

func (r *GormCellRepository) Add(ctx context.Context, aggregate *buffer.Cell) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgutil.Wrap(err)
	}
	if err := r.savePlacements(ctx, aggregate.Placements()); err != nil {
		return err
	}

	aggregate.Synced()
	return nil
}

// Update closes removed placements, inserts new ones and writes the derived
// load and status.
func (r *GormCellRepository) Update(ctx context.Context, aggregate *buffer.Cell) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	if err := r.savePlacements(ctx, aggregate.Removed()); err != nil {
		return err
	}
	if err := r.savePlacements(ctx, aggregate.Placements()); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CellDTO{ID: dto.ID}).
		Select("Reserved", "Load", "Status").
		Updates(&dto)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pgutil.Translate(gorm.ErrRecordNotFound, "cell", aggregate.ID().String())
	}

	aggregate.Synced()
	return nil
}

func (r *GormCellRepository) savePlacements(ctx context.Context, placements []*buffer.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	dtos := make([]PlacementDTO, 0, len(placements))
	for _, p := range placements {
		dtos = append(dtos, placementFromDomain(p))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"removed_at"}),
		}).
		Create(&dtos).Error
	return pgutil.Wrap(err)
}

func (r *GormCellRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*buffer.Cell, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CellDTO
	err := r.db.WithContext(ctx).
		Clauses(pgutil.ForUpdate).
		Preload("Placements", openPlacements).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgutil.Translate(err, "cell", id.String())
	}

	return toDomain(dto)
}

func (r *GormCellRepository) GetIDByPallet(ctx context.Context, palletID kernel.UUID) (kernel.UUID, error) {
	if err := palletID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto PlacementDTO
	err := r.db.WithContext(ctx).
		Where("pallet_id = ? AND removed_at IS NULL", palletID.Bytes()).
		Take(&dto).Error
	if err != nil {
		return kernel.UUID{}, pgutil.Translate(err, "cell of pallet", palletID.String())
	}

	return kernel.UUIDFromBytes(dto.CellID[:])
}

// ListForUpdate locks every cell in id order behind a transaction-scoped
// advisory lock.
func (r *GormCellRepository) ListForUpdate(ctx context.Context) ([]*buffer.Cell, error) {
	db := r.db.WithContext(ctx)
	if err := db.Exec("SELECT pg_advisory_xact_lock(?)", reconcileLockKey).Error; err != nil {
		return nil, pgutil.Wrap(err)
	}

	var dtos []CellDTO
	err := db.Clauses(pgutil.ForUpdate).
		Preload("Placements", openPlacements).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgutil.Wrap(err)
	}

	cells := make([]*buffer.Cell, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func openPlacements(db *gorm.DB) *gorm.DB {
	return db.Where("removed_at IS NULL").Order("placed_at")
}
