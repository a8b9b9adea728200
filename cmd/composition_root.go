package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"swiftlogistics/internal/adapters/out/backoffice"
	"swiftlogistics/internal/adapters/out/geo"
	"swiftlogistics/internal/adapters/out/postgres"
	"swiftlogistics/internal/core/application/tracking"
	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/application/usecases/queries"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/keylock"
)

// CompositionRoot wires adapters into the application's use cases. The
// tracker, the keyed mutexes, and every store are shared singletons;
// handlers are cheap and built per request for one.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	cms ports.ClientManagementClient
	wms ports.WarehouseClient
	ros ports.RoutePlanningClient

	geocoder      ports.Geocoder
	publisher     ports.NotificationPublisher
	locationStore ports.LocationStore
	progressStore ports.ProgressStore

	tracker     *tracking.Tracker
	sagaLocks   *keylock.KeyedMutex
	driverLocks *keylock.KeyedMutex

	stepTimeout   time.Duration
	depotAddress  string
	depotLocation kernel.GeoPoint

	logger *slog.Logger
}

// NewCompositionRoot builds the object graph. The database, publisher and
// location store are constructed by the caller so their lifecycles (and
// failure modes) stay in main.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.NotificationPublisher,
	locationStore ports.LocationStore,
	progressStore ports.ProgressStore,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	cms, err := backoffice.NewCMSClient(config.CMSBaseURL, config.BackofficeAPIKey, httpClient)
	if err != nil {
		return nil, err
	}
	wms, err := backoffice.NewWMSClient(config.WMSBaseURL, config.BackofficeAPIKey, httpClient)
	if err != nil {
		return nil, err
	}
	ros, err := backoffice.NewROSClient(config.ROSBaseURL, config.BackofficeAPIKey, httpClient)
	if err != nil {
		return nil, err
	}

	geocoder, err := geo.NewHTTPGeocoder(config.GeocoderBaseURL, config.GeocoderAPIKey, httpClient)
	if err != nil {
		return nil, err
	}

	depotLocation, err := kernel.NewGeoPoint(config.DepotLatitude, config.DepotLongitude)
	if err != nil {
		return nil, err
	}

	driverLocks := keylock.New()
	tracker := tracking.NewTracker(locationStore, progressStore, geocoder, driverLocks, logger)

	return &CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		cms:           cms,
		wms:           wms,
		ros:           ros,
		geocoder:      geocoder,
		publisher:     publisher,
		locationStore: locationStore,
		progressStore: progressStore,
		tracker:       tracker,
		sagaLocks:     keylock.New(),
		driverLocks:   driverLocks,
		stepTimeout:   time.Duration(config.IntegrationTimeoutSeconds) * time.Second,
		depotAddress:  config.DepotAddress,
		depotLocation: depotLocation,
		logger:        logger,
	}, nil
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() commands.ProcessOrderCommandHandler {
	var f commands.SagaUoWFactory = FuncSagaUoWFactory(func() commands.SagaUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessOrderCommandHandler(
		f, c.cms, c.wms, c.ros, c.publisher, c.sagaLocks, c.stepTimeout, c.logger)
}

func (c *CompositionRoot) CreateRecoverSagasCommandHandler() commands.RecoverSagasCommandHandler {
	var f commands.SagaUoWFactory = FuncSagaUoWFactory(func() commands.SagaUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecoverSagasCommandHandler(f, c.CreateProcessOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateAssignOrdersCommandHandler() commands.AssignOrdersCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrdersCommandHandler(
		f, c.geocoder, c.locationStore, c.tracker, c.publisher,
		c.depotAddress, c.depotLocation, c.driverLocks, c.logger)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.tracker)
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartRouteCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(
		f, c.locationStore, c.progressStore, c.publisher, c.driverLocks, c.logger)
}

func (c *CompositionRoot) CreateEstimateArrivalQueryHandler() queries.EstimateArrivalQueryHandler {
	return queries.NewEstimateArrivalQueryHandler(c.tracker)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB, c.tracker)
}

type FuncSagaUoWFactory func() commands.SagaUoW

func (f FuncSagaUoWFactory) Create() commands.SagaUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
