package palletrepo_test

import (
	"context"
	"testing"

	"production/internal/adapters/out/postgres/palletrepo"
	"production/internal/adapters/out/postgres/pgtest"
	"production/internal/core/domain/model/kernel"
	"production/internal/core/domain/model/pallet"
	"production/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PalletRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *palletrepo.GormPalletRepository
}

func (suite *PalletRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.repository = palletrepo.NewGormPalletRepository(database.DB)
}

func (suite *PalletRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *PalletRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *PalletRepositoryIntegrationTestSuite) add(partID kernel.UUID, quantity string) *pallet.Pallet {
	ctx := context.Background()
	number, err := suite.repository.NextNumber(ctx, partID)
	suite.Require().NoError(err)
	q, err := kernel.QuantityFromString(quantity)
	suite.Require().NoError(err)
	p, err := pallet.NewPallet(kernel.NewUUID(), partID, number, q)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, p))
	return p
}

func (suite *PalletRepositoryIntegrationTestSuite) TestNextNumber_CountsPerPart() {
	ctx := context.Background()
	first, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	second, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)

	suite.Equal(1, suite.add(first.Part.ID(), "10").Number())
	suite.Equal(2, suite.add(first.Part.ID(), "10").Number())
	suite.Equal(1, suite.add(second.Part.ID(), "10").Number())

	next, err := suite.repository.NextNumber(ctx, first.Part.ID())
	suite.Require().NoError(err)
	suite.Equal(3, next)
}

func (suite *PalletRepositoryIntegrationTestSuite) TestAdd_DuplicateNumberWithinPart_ReturnsConflict() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	existing := suite.add(fixture.Part.ID(), "10")

	duplicate, err := pallet.NewPallet(kernel.NewUUID(), fixture.Part.ID(), existing.Number(), kernel.MustQuantity(5))
	suite.Require().NoError(err)
	err = suite.repository.Add(ctx, duplicate)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *PalletRepositoryIntegrationTestSuite) TestUpdate_PersistsDecimalQuantity() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	p := suite.add(fixture.Part.ID(), "10.5")

	deducted, err := kernel.QuantityFromString("4.25")
	suite.Require().NoError(err)
	suite.Require().NoError(p.Deduct(deducted))
	suite.Require().NoError(suite.repository.Update(ctx, p))

	reloaded, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	expected, err := kernel.QuantityFromString("6.25")
	suite.Require().NoError(err)
	suite.True(reloaded.Quantity().Equal(expected), "got %s", reloaded.Quantity())
	suite.True(reloaded.PartID().IsEqual(fixture.Part.ID()))
}

func (suite *PalletRepositoryIntegrationTestSuite) TestListByPart_OrdersByNumber() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	other, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)

	for range 3 {
		suite.add(fixture.Part.ID(), "5")
	}
	suite.add(other.Part.ID(), "5")

	pallets, err := suite.repository.ListByPart(ctx, fixture.Part.ID())
	suite.Require().NoError(err)
	suite.Require().Len(pallets, 3)
	for i, p := range pallets {
		suite.Equal(i+1, p.Number())
		suite.True(p.PartID().IsEqual(fixture.Part.ID()))
	}
}

func (suite *PalletRepositoryIntegrationTestSuite) TestGetForUpdate_LocksInsideTransaction() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	p := suite.add(fixture.Part.ID(), "7")

	err = suite.database.DB.Transaction(func(tx *gorm.DB) error {
		locked, getErr := palletrepo.NewGormPalletRepository(tx).GetForUpdate(ctx, p.ID())
		suite.Require().NoError(getErr)
		suite.True(locked.IsEqual(p))
		return nil
	})
	suite.Require().NoError(err)
}

func (suite *PalletRepositoryIntegrationTestSuite) TestDelete_RemovesPallet() {
	ctx := context.Background()
	fixture, err := suite.database.SeedPart(ctx, 1, 100)
	suite.Require().NoError(err)
	p := suite.add(fixture.Part.ID(), "3")

	suite.Require().NoError(suite.repository.Delete(ctx, p.ID()))

	_, err = suite.repository.Get(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	err = suite.repository.Delete(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PalletRepositoryIntegrationTestSuite) TestGet_NonExistentPallet_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Equal(errs.KindNotFound, errs.KindOf(err))
}

func TestPalletRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PalletRepositoryIntegrationTestSuite))
}
