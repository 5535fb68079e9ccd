// Package postgres provides the GORM-based Unit of Work that scopes every
// routing repository to one database transaction.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	p, err := uow.PalletRepository().GetForUpdate(ctx, palletID)
//	if err != nil {
//	    return err
//	}
//	// ... change aggregates through the other repositories
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides one isolated transaction
//   - Rows read with ...ForUpdate stay locked until Commit or Rollback
//   - Lock and serialization failures surface as errs.ConflictError
package postgres

import (
	"context"

	"production/internal/adapters/out/postgres/cellrepo"
	"production/internal/adapters/out/postgres/machinerepo"
	"production/internal/adapters/out/postgres/palletrepo"
	"production/internal/adapters/out/postgres/partrepo"
	"production/internal/adapters/out/postgres/progressrepo"
	"production/internal/adapters/out/postgres/reclamationrepo"
	"production/internal/adapters/out/postgres/routerepo"
	"production/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work with its own transaction.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance. The concrete type also satisfies
// the narrower unit of work interfaces the command handlers declare.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the routing
// repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes
// a deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn is the active transaction, or the plain connection outside one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) RouteRepository() ports.RouteRepository {
	return routerepo.NewGormRouteRepository(uow.conn())
}

func (uow *GormUnitOfWork) MachineRepository() ports.MachineRepository {
	return machinerepo.NewGormMachineRepository(uow.conn())
}

func (uow *GormUnitOfWork) PartRepository() ports.PartRepository {
	return partrepo.NewGormPartRepository(uow.conn())
}

func (uow *GormUnitOfWork) PalletRepository() ports.PalletRepository {
	return palletrepo.NewGormPalletRepository(uow.conn())
}

func (uow *GormUnitOfWork) StageProgressRepository() ports.StageProgressRepository {
	return progressrepo.NewGormStageProgressRepository(uow.conn())
}

func (uow *GormUnitOfWork) PartRouteProgressRepository() ports.PartRouteProgressRepository {
	return progressrepo.NewGormPartRouteProgressRepository(uow.conn())
}

func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return machinerepo.NewGormAssignmentRepository(uow.conn())
}

func (uow *GormUnitOfWork) CellRepository() ports.CellRepository {
	return cellrepo.NewGormCellRepository(uow.conn())
}

func (uow *GormUnitOfWork) ReclamationRepository() ports.ReclamationRepository {
	return reclamationrepo.NewGormReclamationRepository(uow.conn())
}

// Models lists every table the repositories use, in migration order.
func Models() []any {
	return []any{
		&routerepo.RouteDTO{},
		&routerepo.RouteStageDTO{},
		&machinerepo.MachineDTO{},
		&machinerepo.AssignmentDTO{},
		&partrepo.PartDTO{},
		&palletrepo.PalletDTO{},
		&progressrepo.StageProgressDTO{},
		&progressrepo.PartRouteProgressDTO{},
		&cellrepo.CellDTO{},
		&cellrepo.PlacementDTO{},
		&reclamationrepo.ReclamationDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
