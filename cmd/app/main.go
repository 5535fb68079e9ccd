package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"production/cmd"
	httpadapter "production/internal/adapters/in/http"
	"production/internal/adapters/out/kafka"
	"production/internal/adapters/out/logbus"
	"production/internal/adapters/out/postgres"
	"production/internal/core/ports"
	"production/internal/generated/servers"
	"production/internal/pkg/metrics"
	"production/internal/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatal(err)
	}

	appLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(appLogger)

	shutdownTracing := tracing.Init(configs.TraceSampleRatio)

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	m := metrics.New()
	publisher, packaging, closePublisher := newNotificationBus(configs, m, appLogger)

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, packaging, m, appLogger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	swagger, err := servers.GetSwagger()
	if err != nil {
		log.Fatalf("failed to load OpenAPI document: %v", err)
	}
	if err = swagger.Validate(ctx); err != nil {
		log.Fatalf("invalid OpenAPI document: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	app.CreateServer().Register(e)
	if err = httpadapter.RegisterDocs(e, swagger); err != nil {
		log.Fatalf("failed to register API docs: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err = app.Close(shutdownCtx); err != nil {
		appLogger.Error("notification delivery did not drain", "error", err)
	}
	if err = closePublisher(); err != nil {
		appLogger.Error("publisher close failed", "error", err)
	}
	if err = shutdownTracing(shutdownCtx); err != nil {
		appLogger.Error("tracing shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		HTTPPort:             os.Getenv("HTTP_PORT"),
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               os.Getenv("DB_PORT"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               os.Getenv("DB_NAME"),
		DBSslMode:            os.Getenv("DB_SSLMODE"),
		DBMaxOpenConns:       intVariable("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:       intVariable("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime:    time.Duration(intVariable("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
		DBAutoMigrate:        os.Getenv("DB_AUTO_MIGRATE") == "true",
		DBStatementTimeoutMs: intVariable("DB_STATEMENT_TIMEOUT_MS", 0),
		KafkaBrokers:         listVariable("KAFKA_BROKERS"),
		KafkaSource:          stringVariable("KAFKA_SOURCE", "/production/routing"),
		LogLevel:             stringVariable("LOG_LEVEL", "info"),
		TraceSampleRatio:     floatVariable("TRACE_SAMPLE_RATIO", 0.1),
		ReconcileSchedule:    stringVariable("BUFFER_RECONCILE_SCHEDULE", "0 */5 * * * *"),
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if configs.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(configs.DBMaxOpenConns)
	}
	sqlDB.SetMaxIdleConns(configs.DBMaxIdleConns)
	if configs.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(configs.DBConnMaxLifetime)
	}

	if err = gormDB.Use(otelgorm.NewPlugin()); err != nil {
		log.Warnf("db connected but failed to install otelgorm plugin: %v", err)
	}

	if configs.DBAutoMigrate {
		if err = postgres.Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return gormDB, nil
}

// newNotificationBus publishes to Kafka when brokers are configured and to the
// log otherwise.
func newNotificationBus(
	configs cmd.Config,
	m *metrics.Metrics,
	appLogger *slog.Logger,
) (ports.EventPublisher, ports.PackagingQueue, func() error) {
	if len(configs.KafkaBrokers) == 0 {
		appLogger.Warn("KAFKA_BROKERS is empty, events are logged only")
		bus := logbus.NewPublisher(appLogger)
		return bus, bus, func() error { return nil }
	}

	kafkaConfig := kafka.DefaultConfig(configs.KafkaBrokers...)
	kafkaConfig.Source = configs.KafkaSource
	bus := kafka.NewPublisher(kafka.NewProducer(kafkaConfig), kafkaConfig, m, appLogger)
	return bus, bus, bus.Close
}

func stringVariable(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intVariable(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return n
}

func floatVariable(key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return f
}

func listVariable(key string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
