package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/domain/model/driver"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/core/domain/model/saga"
	"swiftlogistics/internal/core/domain/model/tracking"
	"swiftlogistics/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllInStatus(ctx context.Context, status driver.Status) ([]*driver.Driver, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, aggregate *route.OptimizedRoute) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, aggregate *route.OptimizedRoute) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.OptimizedRoute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.OptimizedRoute), args.Error(1)
}

func (m *MockRouteRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*route.OptimizedRoute, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.OptimizedRoute), args.Error(1)
}

func (m *MockRouteRepository) GetAllInStatus(ctx context.Context, status route.Status) ([]*route.OptimizedRoute, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.OptimizedRoute), args.Error(1)
}

type MockSagaExecutionRepository struct{ mock.Mock }

func (m *MockSagaExecutionRepository) Add(ctx context.Context, aggregate *saga.Execution) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockSagaExecutionRepository) Update(ctx context.Context, aggregate *saga.Execution) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockSagaExecutionRepository) Get(ctx context.Context, id kernel.UUID) (*saga.Execution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*saga.Execution), args.Error(1)
}

func (m *MockSagaExecutionRepository) GetAllRunning(ctx context.Context) ([]*saga.Execution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*saga.Execution), args.Error(1)
}

type MockClientManagementClient struct{ mock.Mock }

func (m *MockClientManagementClient) Submit(ctx context.Context, aggregate *order.Order) (string, error) {
	args := m.Called(ctx, aggregate)
	return args.String(0), args.Error(1)
}

func (m *MockClientManagementClient) CancelSubmission(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

type MockWarehouseClient struct{ mock.Mock }

func (m *MockWarehouseClient) AddPackage(ctx context.Context, aggregate *order.Order) (string, error) {
	args := m.Called(ctx, aggregate)
	return args.String(0), args.Error(1)
}

func (m *MockWarehouseClient) RemovePackage(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

type MockRoutePlanningClient struct{ mock.Mock }

func (m *MockRoutePlanningClient) PlanRoute(ctx context.Context, aggregate *order.Order) (string, error) {
	args := m.Called(ctx, aggregate)
	return args.String(0), args.Error(1)
}

func (m *MockRoutePlanningClient) CancelRoute(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

type MockNotificationPublisher struct{ mock.Mock }

func (m *MockNotificationPublisher) PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotificationPublisher) PublishDeliveryCompleted(ctx context.Context, driverID string, orderNumber string, completedAt time.Time) error {
	args := m.Called(ctx, driverID, orderNumber, completedAt)
	return args.Error(0)
}

func (m *MockNotificationPublisher) PublishManualIntervention(ctx context.Context, report ports.ManualInterventionReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockLocationStore struct{ mock.Mock }

func (m *MockLocationStore) Set(ctx context.Context, location tracking.DriverLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationStore) Get(ctx context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).(tracking.DriverLocation), args.Bool(1), args.Error(2)
}

type MockProgressStore struct{ mock.Mock }

func (m *MockProgressStore) Set(ctx context.Context, progress *tracking.RouteProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) Get(ctx context.Context, driverID kernel.UUID) (*tracking.RouteProgress, bool, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*tracking.RouteProgress), args.Bool(1), args.Error(2)
}

func (m *MockProgressStore) Delete(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

type MockRouteTracker struct{ mock.Mock }

func (m *MockRouteTracker) BeginTracking(ctx context.Context, driverID kernel.UUID, aggregate *route.OptimizedRoute) error {
	args := m.Called(ctx, driverID, aggregate)
	return args.Error(0)
}

// stub unit of work: no transaction behavior, just hands out its repos.
type stubUoW struct {
	orders  *MockOrderRepository
	drivers *MockDriverRepository
	routes  *MockRouteRepository
	sagas   *MockSagaExecutionRepository
}

func (u *stubUoW) Begin(_ context.Context) error    { return nil }
func (u *stubUoW) Commit(_ context.Context) error   { return nil }
func (u *stubUoW) Rollback(_ context.Context) error { return nil }

func (u *stubUoW) OrderRepository() ports.OrderRepository {
	return u.orders
}

func (u *stubUoW) DriverRepository() ports.DriverRepository {
	return u.drivers
}

func (u *stubUoW) RouteRepository() ports.RouteRepository {
	return u.routes
}

func (u *stubUoW) SagaExecutionRepository() ports.SagaExecutionRepository {
	return u.sagas
}

type stubSagaUoWFactory struct{ uow *stubUoW }

func (f stubSagaUoWFactory) Create() commands.SagaUoW { return f.uow }

type stubAssignmentUoWFactory struct{ uow *stubUoW }

func (f stubAssignmentUoWFactory) Create() commands.AssignmentUoW { return f.uow }

type stubDeliveryUoWFactory struct{ uow *stubUoW }

func (f stubDeliveryUoWFactory) Create() commands.DeliveryUoW { return f.uow }
