package cmd

import (
	"context"
	"log/slog"

	httpadapter "production/internal/adapters/in/http"
	"production/internal/adapters/out/postgres"
	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/ports"
	"production/internal/jobs"
	"production/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   *commands.Notifier
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	packaging ports.PackagingQueue,
	m *metrics.Metrics,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   commands.NewNotifier(publisher, packaging, logger),
		metrics:    m,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) bufferUoW() commands.BufferUoWFactory {
	return FuncBufferUoWFactory(func() commands.BufferUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateCreatePalletCommandHandler() commands.CreatePalletCommandHandler {
	return commands.NewCreatePalletCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateAssignPalletCommandHandler() commands.AssignPalletCommandHandler {
	return commands.NewAssignPalletCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateStartProcessingCommandHandler() commands.StartProcessingCommandHandler {
	return commands.NewStartProcessingCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateCompleteProcessingCommandHandler() commands.CompleteProcessingCommandHandler {
	return commands.NewCompleteProcessingCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateMoveToBufferCommandHandler() commands.MoveToBufferCommandHandler {
	return commands.NewMoveToBufferCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateMoveToMachineCommandHandler() commands.MoveToMachineCommandHandler {
	return commands.NewMoveToMachineCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateRedistributeCommandHandler() commands.RedistributeCommandHandler {
	return commands.NewRedistributeCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateReportDefectCommandHandler() commands.ReportDefectCommandHandler {
	return commands.NewReportDefectCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateSetCellReservationCommandHandler() commands.SetCellReservationCommandHandler {
	return commands.NewSetCellReservationCommandHandler(c.bufferUoW())
}

func (c *CompositionRoot) CreateReconcileBufferCommandHandler() commands.ReconcileBufferCommandHandler {
	return commands.NewReconcileBufferCommandHandler(c.bufferUoW())
}

func (c *CompositionRoot) CreateGetPalletsByPartQueryHandler() queries.GetPalletsByPartQueryHandler {
	return queries.NewGetPalletsByPartQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenAssignmentsByMachineQueryHandler() queries.GetOpenAssignmentsByMachineQueryHandler {
	return queries.NewGetOpenAssignmentsByMachineQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBufferOccupancyQueryHandler() queries.GetBufferOccupancyQueryHandler {
	return queries.NewGetBufferOccupancyQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreatePallet:       c.CreateCreatePalletCommandHandler(),
		AssignPallet:       c.CreateAssignPalletCommandHandler(),
		StartProcessing:    c.CreateStartProcessingCommandHandler(),
		CompleteProcessing: c.CreateCompleteProcessingCommandHandler(),
		MoveToBuffer:       c.CreateMoveToBufferCommandHandler(),
		MoveToMachine:      c.CreateMoveToMachineCommandHandler(),
		Redistribute:       c.CreateRedistributeCommandHandler(),
		ReportDefect:       c.CreateReportDefectCommandHandler(),
		SetCellReservation: c.CreateSetCellReservationCommandHandler(),
		ReconcileBuffer:    c.CreateReconcileBufferCommandHandler(),

		GetPalletsByPart:            c.CreateGetPalletsByPartQueryHandler(),
		GetOpenAssignmentsByMachine: c.CreateGetOpenAssignmentsByMachineQueryHandler(),
		GetBufferOccupancy:          c.CreateGetBufferOccupancyQueryHandler(),
	}, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReconcileBufferCommandHandler(),
		c.config.ReconcileSchedule,
		c.metrics,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncBufferUoWFactory func() commands.BufferUoW

func (f FuncBufferUoWFactory) Create() commands.BufferUoW {
	return f()
}

// Close delivers the notifications still queued for the bus.
func (c *CompositionRoot) Close(ctx context.Context) error {
	return c.notifier.Close(ctx)
}
