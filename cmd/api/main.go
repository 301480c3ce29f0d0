package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/handharbeni/notaryflow-backend/api/routes"
	"github.com/handharbeni/notaryflow-backend/internal/custody"
	"github.com/handharbeni/notaryflow-backend/internal/documents"
	"github.com/handharbeni/notaryflow-backend/internal/ledger"
	"github.com/handharbeni/notaryflow-backend/internal/notifications"
	"github.com/handharbeni/notaryflow-backend/internal/requests"
	"github.com/handharbeni/notaryflow-backend/internal/users"
	"github.com/handharbeni/notaryflow-backend/pkg/config"
	"github.com/handharbeni/notaryflow-backend/pkg/db"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
	"github.com/handharbeni/notaryflow-backend/pkg/metrics"
	"github.com/handharbeni/notaryflow-backend/pkg/migrate"
	"github.com/handharbeni/notaryflow-backend/pkg/outbox"
	"github.com/handharbeni/notaryflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	documentsRepo := documents.NewRepository(dbClient.DB())
	requestsRepo := requests.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	emitter, err := notifications.NewEmitter(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification emitter", err)
		os.Exit(1)
	}

	directory, err := users.NewDirectory(users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create user directory", err)
		os.Exit(1)
	}

	custodyService, err := custody.NewService(custody.Config{
		Documents:       documentsRepo,
		Requests:        requestsRepo,
		Ledger:          ledgerRepo,
		Notifier:        emitter,
		Directory:       directory,
		Tx:              dbClient,
		Outbox:          outboxService,
		Metrics:         metrics.NewCustodyMetrics(prometheus.DefaultRegisterer),
		DefaultLoanDays: cfg.Custody.DefaultLoanDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create custody service", err)
		os.Exit(1)
	}

	documentsService, err := documents.NewService(documentsRepo, ledgerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			documentsService,
			custodyService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
