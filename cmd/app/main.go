package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"swiftlogistics/cmd"
	httpserver "swiftlogistics/internal/adapters/in/http"
	"swiftlogistics/internal/adapters/out/memory"
	"swiftlogistics/internal/adapters/out/postgres/driverrepo"
	"swiftlogistics/internal/adapters/out/postgres/orderrepo"
	"swiftlogistics/internal/adapters/out/postgres/routerepo"
	"swiftlogistics/internal/adapters/out/postgres/sagarepo"
	"swiftlogistics/internal/adapters/out/rabbit"
	redisstore "swiftlogistics/internal/adapters/out/redis"
	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/jobs"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	publisher := mustConnectPublisher(configs, logger)

	locationStore := createLocationStore(configs, logger)
	progressStore := memory.NewProgressStore()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, locationStore, progressStore, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	recoverInterruptedSagas(app, logger)

	jobManager := jobs.NewJobManager(app.CreateAssignOrdersCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:                  envOrDefault("HTTP_PORT", "8080"),
		DBHost:                    os.Getenv("DB_HOST"),
		DBPort:                    envOrDefault("DB_PORT", "5432"),
		DBUser:                    os.Getenv("DB_USER"),
		DBPassword:                os.Getenv("DB_PASSWORD"),
		DBName:                    os.Getenv("DB_NAME"),
		DBSslMode:                 envOrDefault("DB_SSLMODE", "disable"),
		CMSBaseURL:                os.Getenv("CMS_BASE_URL"),
		WMSBaseURL:                os.Getenv("WMS_BASE_URL"),
		ROSBaseURL:                os.Getenv("ROS_BASE_URL"),
		BackofficeAPIKey:          os.Getenv("BACKOFFICE_API_KEY"),
		GeocoderBaseURL:           os.Getenv("GEOCODER_BASE_URL"),
		GeocoderAPIKey:            os.Getenv("GEOCODER_API_KEY"),
		RabbitURL:                 os.Getenv("RABBITMQ_URL"),
		RedisAddr:                 os.Getenv("REDIS_ADDR"),
		IntegrationTimeoutSeconds: envIntOrDefault("INTEGRATION_TIMEOUT_SECONDS", 10),
		DepotAddress:              envOrDefault("DEPOT_ADDRESS", "SwiftLogistics Warehouse"),
		DepotLatitude:             envFloatOrDefault("DEPOT_LATITUDE", 6.9271),
		DepotLongitude:            envFloatOrDefault("DEPOT_LONGITUDE", 79.8612),
	}
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return parsed
}

func envFloatOrDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return parsed
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&routerepo.RouteDTO{},
		&routerepo.RoutePointDTO{},
		&sagarepo.ExecutionDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return gormDB
}

func mustConnectPublisher(configs cmd.Config, logger *slog.Logger) ports.NotificationPublisher {
	conn, err := amqp.Dial(configs.RabbitURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open RabbitMQ channel: %v", err)
	}

	publisher, err := rabbit.NewPublisher(channel, logger)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	return publisher
}

func createLocationStore(configs cmd.Config, logger *slog.Logger) ports.LocationStore {
	if configs.RedisAddr == "" {
		return memory.NewLocationStore()
	}

	client := goredis.NewClient(&goredis.Options{Addr: configs.RedisAddr})
	store, err := redisstore.NewLocationStore(client, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create redis location store: %v", err)
	}

	logger.Info("Using redis location store", "addr", configs.RedisAddr)
	return store
}

// recoverInterruptedSagas compensates executions a previous process left
// RUNNING. Failures here are logged, not fatal: the orders involved stay
// visible through the manual-intervention channel.
func recoverInterruptedSagas(app *cmd.CompositionRoot, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	handler := app.CreateRecoverSagasCommandHandler()
	result, err := handler.Handle(ctx, commands.NewRecoverSagasCommand())
	if err != nil {
		logger.Error("Saga recovery pass failed", "error", err)
		return
	}

	if result.Recovered > 0 || result.Escalated > 0 {
		logger.Info("Saga recovery pass finished",
			"recovered", result.Recovered,
			"escalated", result.Escalated)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpserver.NewServer(
		app.CreateProcessOrderCommandHandler(),
		app.CreateAssignOrdersCommandHandler(),
		app.CreateReportLocationCommandHandler(),
		app.CreateStartRouteCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateEstimateArrivalQueryHandler(),
		app.CreateGetActiveDeliveriesQueryHandler(),
		logger,
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
