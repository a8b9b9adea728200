package routerepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"swiftlogistics/internal/adapters/out/postgres/routerepo"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/pkg/errs"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// RouteRepositoryIntegrationTestSuite verifies route persistence, in
// particular that the visiting order and the nullable point coordinates
// survive round trips.
type RouteRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *routerepo.GormRouteRepository
	tracker    *MockAggregateTracker
}

func (suite *RouteRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

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
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&routerepo.RouteDTO{}, &routerepo.RoutePointDTO{}))
}

func (suite *RouteRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE routes, route_points").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()
	suite.repository = routerepo.NewGormRouteRepository(suite.db, suite.tracker)
}

func (suite *RouteRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RouteRepositoryIntegrationTestSuite) TestAddAndGet_PreservesVisitingOrder() {
	ctx := context.Background()
	aggregate := suite.newRoute(kernel.NewUUID(), "SL-1", "SL-2", "SL-3")

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	points := retrieved.Points()
	suite.Require().Len(points, 4)
	suite.True(points[0].IsStart())
	suite.Equal("SL-1", points[1].OrderRef())
	suite.Equal("SL-2", points[2].OrderRef())
	suite.Equal("SL-3", points[3].OrderRef())
	suite.Equal(route.Planned, retrieved.Status())
	suite.Equal(route.Optimized, retrieved.Kind())
}

func (suite *RouteRepositoryIntegrationTestSuite) TestRoundTrip_PointWithoutCoordinates() {
	ctx := context.Background()

	startAt, err := kernel.NewGeoPoint(52.5000, 13.4000)
	suite.Require().NoError(err)
	start, err := route.NewStartPoint("Central Warehouse", startAt)
	suite.Require().NoError(err)
	unresolved, err := route.NewDeliveryPoint("Unknown address 9", kernel.GeoPoint{}, "SL-1")
	suite.Require().NoError(err)

	aggregate, err := route.NewOptimizedRoute(
		kernel.NewUUID(), kernel.NewUUID(), []route.Point{start, unresolved}, 0, 0, route.Fallback,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	points := retrieved.Points()
	suite.Require().Len(points, 2)
	suite.True(points[0].HasCoordinates())
	suite.False(points[1].HasCoordinates())
	suite.Equal(route.Fallback, retrieved.Kind())
}

func (suite *RouteRepositoryIntegrationTestSuite) TestUpdate_PersistsPointCompletion() {
	ctx := context.Background()
	aggregate := suite.newRoute(kernel.NewUUID(), "SL-1", "SL-2")
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	suite.Require().NoError(aggregate.Activate())
	completedAt := time.Now().UTC().Truncate(time.Millisecond)
	suite.Require().NoError(aggregate.CompletePoint("SL-1", completedAt))
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(route.Active, retrieved.Status())

	point, found := retrieved.FindDeliveryPoint("SL-1")
	suite.Require().True(found)
	suite.Equal(route.PointCompleted, point.Status())
	suite.Require().NotNil(point.CompletedAt())
	suite.WithinDuration(completedAt, *point.CompletedAt(), time.Second)
	suite.Equal(1, retrieved.RemainingDeliveries())
}

func (suite *RouteRepositoryIntegrationTestSuite) TestGetActiveByDriver() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	finished := suite.newRoute(driverID, "SL-0")
	suite.Require().NoError(finished.Activate())
	suite.Require().NoError(finished.CompletePoint("SL-0", time.Now().UTC()))
	suite.Require().NoError(finished.Complete())
	suite.Require().NoError(suite.repository.Add(ctx, finished))

	current := suite.newRoute(driverID, "SL-1")
	suite.Require().NoError(suite.repository.Add(ctx, current))

	retrieved, err := suite.repository.GetActiveByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(current.ID().IsEqual(retrieved.ID()))

	// A driver with only finished routes has no current route.
	_, err = suite.repository.GetActiveByDriver(ctx, kernel.NewUUID())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *RouteRepositoryIntegrationTestSuite) newRoute(driverID kernel.UUID, orderRefs ...string) *route.OptimizedRoute {
	startAt, err := kernel.NewGeoPoint(52.5000, 13.4000)
	suite.Require().NoError(err)
	start, err := route.NewStartPoint("Central Warehouse", startAt)
	suite.Require().NoError(err)

	points := []route.Point{start}
	for i, ref := range orderRefs {
		at, err := kernel.NewGeoPoint(52.5000+float64(i+1)*0.01, 13.4000)
		suite.Require().NoError(err)
		point, err := route.NewDeliveryPoint(ref+" Street", at, ref)
		suite.Require().NoError(err)
		points = append(points, point)
	}

	aggregate, err := route.NewOptimizedRoute(
		kernel.NewUUID(), driverID, points, float64(len(orderRefs)), 10*len(orderRefs), route.Optimized,
	)
	suite.Require().NoError(err)
	return aggregate
}

func TestRouteRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RouteRepositoryIntegrationTestSuite))
}
