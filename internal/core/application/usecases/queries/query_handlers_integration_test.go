package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "production/internal/adapters/out/postgres"
	"production/internal/adapters/out/postgres/pgtest"
	"production/internal/core/application/usecases/commands"
	"production/internal/core/application/usecases/queries"
	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/machine"
	"production/internal/core/domain/model/pallet"

	"github.com/stretchr/testify/suite"
)

type routingFactory struct {
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (f routingFactory) Create() commands.UoW {
	return f.factory.CreateGorm()
}

type QueryHandlersIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	routing  commands.UoWFactory
}

func (suite *QueryHandlersIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.routing = routingFactory{factory: postgres_adapter.NewGormUnitOfWorkFactory(database.DB)}
}

func (suite *QueryHandlersIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *QueryHandlersIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetPalletsByPart() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	m, err := suite.database.SeedMachine(ctx, fixture.Stages[0])
	suite.Require().NoError(err)
	cell, err := suite.database.SeedCell(ctx, 1)
	suite.Require().NoError(err)

	working := suite.createPallet(ctx, fixture.Part.ID(), 60)
	waiting := suite.createPallet(ctx, fixture.Part.ID(), 40)
	suite.start(ctx, working.ID(), m.ID())
	suite.place(ctx, waiting.ID(), cell.ID())

	query, err := queries.NewGetPalletsByPartQuery(fixture.Part.ID())
	suite.Require().NoError(err)
	result, err := queries.NewGetPalletsByPartQueryHandler(suite.database.DB).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.Equal(1, result[0].Number)
	suite.Equal("60", result[0].Quantity.String())
	suite.Equal("IN_PROGRESS", result[0].Status)
	suite.Require().NotNil(result[0].CurrentStageID)
	suite.True(result[0].CurrentStageID.IsEqual(fixture.Stages[0].ID()))
	suite.Require().NotNil(result[0].MachineID)
	suite.True(result[0].MachineID.IsEqual(m.ID()))
	suite.Nil(result[0].CellID)

	suite.Equal("NOT_PROCESSED", result[1].Status)
	suite.Nil(result[1].MachineID)
	suite.Require().NotNil(result[1].CellID)
	suite.True(result[1].CellID.IsEqual(cell.ID()))

	unknown, err := queries.NewGetPalletsByPartQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	empty, err := queries.NewGetPalletsByPartQueryHandler(suite.database.DB).Handle(ctx, unknown)
	suite.Require().NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOpenAssignmentsByMachine() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	m, err := suite.database.SeedMachine(ctx, fixture.Stages[0])
	suite.Require().NoError(err)

	p := suite.createPallet(ctx, fixture.Part.ID(), 25)
	suite.start(ctx, p.ID(), m.ID())

	query, err := queries.NewGetOpenAssignmentsByMachineQuery(m.ID())
	suite.Require().NoError(err)
	handler := queries.NewGetOpenAssignmentsByMachineQueryHandler(suite.database.DB)

	result, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].PalletID.IsEqual(p.ID()))
	suite.True(result[0].PartID.IsEqual(fixture.Part.ID()))
	suite.Equal("25", result[0].Quantity.String())
	suite.Equal("IN_PROGRESS", result[0].Status)
	suite.Equal(fixture.Stages[0].StageName(), result[0].StageName)

	complete, err := commands.NewCompleteProcessingCommand(p.ID(), m.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewCompleteProcessingCommandHandler(suite.routing, nil).Handle(ctx, complete))

	result, err = handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetBufferOccupancy() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	full, err := suite.database.SeedCell(ctx, 1)
	suite.Require().NoError(err)
	_, err = suite.database.SeedCell(ctx, 3)
	suite.Require().NoError(err)

	p := suite.createPallet(ctx, fixture.Part.ID(), 10)
	suite.place(ctx, p.ID(), full.ID())

	result, err := queries.NewGetBufferOccupancyQueryHandler(suite.database.DB).
		Handle(ctx, queries.NewGetBufferOccupancyQuery())
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	byID := map[kernel.UUID]queries.GetBufferOccupancyQueryResponse{}
	for _, c := range result {
		byID[c.ID] = c
	}
	suite.Equal(1, byID[full.ID()].Load)
	suite.Equal("OCCUPIED", byID[full.ID()].Status)
	suite.Equal([]kernel.UUID{p.ID()}, byID[full.ID()].PalletIDs)

	for id, c := range byID {
		if id == full.ID() {
			continue
		}
		suite.Equal(0, c.Load)
		suite.Equal("AVAILABLE", c.Status)
		suite.Empty(c.PalletIDs)
	}
}

func (suite *QueryHandlersIntegrationTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := queries.NewGetBufferOccupancyQueryHandler(suite.database.DB).
		Handle(context.Background(), queries.GetBufferOccupancyQuery{})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetBufferOccupancyQuery constructor")
}

func (suite *QueryHandlersIntegrationTestSuite) notifier() *commands.Notifier {
	return commands.NewNotifier(nopPublisher{}, nopPublisher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (suite *QueryHandlersIntegrationTestSuite) createPallet(ctx context.Context, partID kernel.UUID, quantity int64) *pallet.Pallet {
	cmd, err := commands.NewCreatePalletCommand(partID, kernel.MustQuantity(quantity))
	suite.Require().NoError(err)
	p, err := commands.NewCreatePalletCommandHandler(suite.routing, suite.notifier()).Handle(ctx, cmd)
	suite.Require().NoError(err)
	return p
}

func (suite *QueryHandlersIntegrationTestSuite) start(ctx context.Context, palletID, machineID kernel.UUID) {
	cmd, err := commands.NewStartProcessingCommand(palletID, machineID, machine.SelfService)
	suite.Require().NoError(err)
	_, err = commands.NewStartProcessingCommandHandler(suite.routing, suite.notifier()).Handle(ctx, cmd)
	suite.Require().NoError(err)
}

func (suite *QueryHandlersIntegrationTestSuite) place(ctx context.Context, palletID, cellID kernel.UUID) {
	cmd, err := commands.NewMoveToBufferCommand(palletID, cellID)
	suite.Require().NoError(err)
	_, err = commands.NewMoveToBufferCommandHandler(suite.routing, suite.notifier()).Handle(ctx, cmd)
	suite.Require().NoError(err)
}

func TestQueryHandlersIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersIntegrationTestSuite))
}

// nopPublisher drops notifications; the read models are what these tests check.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...events.Event) error {
	return nil
}

func (nopPublisher) NotifyRoutingCompleted(context.Context, kernel.UUID, time.Time) error {
	return nil
}
