// Package pgtest starts a disposable postgres for integration tests and seeds
// the reference data routing operations expect.
package pgtest

import (
	"context"
	"fmt"
	"time"

	postgres_adapter "production/internal/adapters/out/postgres"
	"production/internal/adapters/out/postgres/cellrepo"
	"production/internal/adapters/out/postgres/machinerepo"
	"production/internal/adapters/out/postgres/partrepo"
	"production/internal/adapters/out/postgres/routerepo"
	"production/internal/core/domain/model/buffer"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/part"
	"production/internal/core/domain/model/route"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated database in a running container.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err = postgres_adapter.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Terminate stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

// Truncate empties every table.
func (d *Database) Truncate() error {
	return d.DB.Exec(`TRUNCATE TABLE
		routes, route_stages, machines, machine_assignments, parts, pallets,
		pallet_stage_progress, part_route_progress, buffer_cells, buffer_placements,
		reclamations`).Error
}

// Fixture is reference data for one part: a route of routing stages followed by
// a final stage.
type Fixture struct {
	Route *route.Route
	// Stages are the route's stages in sequence order, the final stage last.
	Stages []*route.RouteStage
	Part   *part.Part
}

// SeedPart stores a route with routingStages routing stages plus a final stage
// and a part of total pieces on it.
func (d *Database) SeedPart(ctx context.Context, routingStages int, total int64) (*Fixture, error) {
	stages := make([]*route.RouteStage, 0, routingStages+1)
	for i := 0; i <= routingStages; i++ {
		final := i == routingStages
		name := fmt.Sprintf("stage-%d", i+1)
		if final {
			name = "packaging"
		}
		s, err := route.NewRouteStage(kernel.NewUUID(), (i+1)*10, kernel.NewUUID(), nil, name, final)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}

	r, err := route.NewRoute(kernel.NewUUID(), "route", stages)
	if err != nil {
		return nil, err
	}
	if err = routerepo.NewGormRouteRepository(d.DB).Add(ctx, r); err != nil {
		return nil, err
	}

	p, err := part.NewPart(kernel.NewUUID(), "part", r.ID(), kernel.MustQuantity(total))
	if err != nil {
		return nil, err
	}
	if err = partrepo.NewGormPartRepository(d.DB).Add(ctx, p); err != nil {
		return nil, err
	}

	return &Fixture{Route: r, Stages: r.Stages(), Part: p}, nil
}

// SeedMachine stores an active machine able to execute the given stages.
func (d *Database) SeedMachine(ctx context.Context, stages ...*route.RouteStage) (*machine.Machine, error) {
	capabilities := make([]kernel.UUID, 0, len(stages))
	for _, s := range stages {
		capabilities = append(capabilities, s.StageID())
	}
	m, err := machine.NewMachine(kernel.NewUUID(), "machine-"+kernel.NewUUID().String()[:8], machine.Active, capabilities)
	if err != nil {
		return nil, err
	}
	if err = machinerepo.NewGormMachineRepository(d.DB).Add(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SeedCell stores an empty buffer cell.
func (d *Database) SeedCell(ctx context.Context, capacity int) (*buffer.Cell, error) {
	c, err := buffer.NewCell(kernel.NewUUID(), "cell-"+kernel.NewUUID().String()[:8], capacity)
	if err != nil {
		return nil, err
	}
	if err = cellrepo.NewGormCellRepository(d.DB).Add(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
