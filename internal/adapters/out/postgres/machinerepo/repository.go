package machinerepo

import (
	"context"

	"production/internal/adapters/out/postgres/pgutil"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"

	"gorm.io/gorm"
)

// GormMachineRepository implements ports.MachineRepository using GORM.
type GormMachineRepository struct {
	db *gorm.DB
}

func NewGormMachineRepository(db *gorm.DB) *GormMachineRepository {
	return &GormMachineRepository{db: db}
}

// Add registers a machine.
func (r *GormMachineRepository) Add(ctx context.Context, aggregate *machine.Machine) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := machineFromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormMachineRepository) Get(ctx context.Context, id kernel.UUID) (*machine.Machine, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MachineDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.Translate(err, "machine", id.String())
	}

	return machineToDomain(dto)
}

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *machine.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := assignmentFromDomain(aggregate)
	return pgutil.Wrap(r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *machine.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := assignmentFromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return pgutil.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return pgutil.Translate(gorm.ErrRecordNotFound, "assignment", aggregate.ID().String())
	}

	return nil
}

func (r *GormAssignmentRepository) GetOpenByPallet(ctx context.Context, palletID kernel.UUID) (*machine.Assignment, error) {
	if err := palletID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("pallet_id = ? AND completed_at IS NULL", palletID.Bytes()).
		First(&dto).Error
	if err != nil {
		return nil, pgutil.Translate(err, "open assignment of pallet", palletID.String())
	}

	return assignmentToDomain(dto)
}

func (r *GormAssignmentRepository) GetLatestByPallet(ctx context.Context, palletID kernel.UUID) (*machine.Assignment, error) {
	if err := palletID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("pallet_id = ?", palletID.Bytes()).
		Order("completed_at IS NULL DESC").
		Order("assigned_at DESC").
		Take(&dto).Error
	if err != nil {
		return nil, pgutil.Translate(err, "assignment of pallet", palletID.String())
	}

	return assignmentToDomain(dto)
}
