package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wayfare/internal/app/commands"
	analyticsapp "wayfare/internal/app/handlers/analytics"
	bookingapp "wayfare/internal/app/handlers/booking"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	appoutbox "wayfare/internal/app/outbox"
	"wayfare/internal/app/policies"
	"wayfare/internal/app/queries"
	"wayfare/internal/app/uow"
	domaincatalog "wayfare/internal/domain/catalog"
	"wayfare/internal/domain/shared/money"
	"wayfare/internal/infra/broker/kafka"
	"wayfare/internal/infra/cache"
	"wayfare/internal/infra/config"
	mongoinfra "wayfare/internal/infra/db/mongo"
	ginserver "wayfare/internal/infra/http/gin"
	"wayfare/internal/infra/notify"
	"wayfare/internal/infra/obs"
	outboxinfra "wayfare/internal/infra/outbox"
	"wayfare/internal/infra/payments"
	"wayfare/internal/infra/storage/memory"
	"wayfare/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.StorageMode == "memory" {
		path := getenv("CATALOG_FIXTURES", filepath.Join("data", "catalog.json"))
		if err := loadCatalogFixtures(app.packages, app.destinations, path, logger); err != nil {
			logger.Warn("catalog fixtures load failed", "error", err, "path", path)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	ready        func() error
	packages     *memory.PackageRepository
	destinations *memory.DestinationRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (application, func(), error) {
		cleanup()
		return application{}, func() {}, err
	}

	app := application{ready: func() error { return nil }}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return fail(fmt.Errorf("kafka producer: %w", err))
		}
		closers = append(closers, func() { _ = p.Close() })
		producer = p
	}

	var (
		uowFactory uow.UoWFactory
		idStore    middleware.IdempotencyStore
		box        appoutbox.Outbox
	)

	switch cfg.StorageMode {
	case "memory":
		bookingRepo := memory.NewBookingRepository()
		app.packages = memory.NewPackageRepository()
		app.destinations = memory.NewDestinationRepository()
		uowFactory = memory.Factory{
			BookingRepo:     bookingRepo,
			PackageRepo:     app.packages,
			DestinationRepo: app.destinations,
		}
		idStore = memory.NewIdempotencyStore()
		box = memory.NewOutbox()
	case "mongo":
		client, err := mongoinfra.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return fail(fmt.Errorf("mongo connect: %w", err))
		}
		closers = append(closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		})
		catalogRepo := mongoinfra.NewCatalogRepository(client.DB)
		uowFactory = mongoinfra.Factory{
			DB:              client.DB,
			BookingRepo:     mongoinfra.NewBookingRepository(client.DB),
			PackageRepo:     catalogRepo,
			DestinationRepo: catalogRepo.Destinations(),
		}
		idStore = mongoinfra.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		outboxStore := outboxinfra.NewStore(client.DB)
		box = outboxStore
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		if producer != nil {
			worker := &outboxinfra.Worker{
				Store:       outboxStore,
				Producer:    producer,
				Logger:      logger,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			go func() {
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("outbox worker stopped", "error", err)
				}
			}()
		}
	}

	var lockManager locks.Manager
	if cfg.RedisAddr != "" {
		redisLocks := cache.NewRedisLockManager(cfg.RedisAddr, cfg.RedisPassword, 0)
		if err := redisLocks.Ping(ctx); err != nil {
			return fail(fmt.Errorf("redis ping: %w", err))
		}
		closers = append(closers, func() { _ = redisLocks.Close() })
		lockManager = redisLocks
	} else {
		lockManager = memory.NewLockManager()
	}

	var (
		notifier policies.Notifier
		refunds  policies.RefundDispatcher
	)
	if producer != nil {
		kn := notify.KafkaNotifier{
			Producer:          producer,
			NotificationTopic: cfg.KafkaTopicPrefix + cfg.NotificationTopic,
			RefundTopic:       cfg.KafkaTopicPrefix + cfg.RefundTopic,
			Logger:            logger,
		}
		notifier, refunds = kn, kn

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "wayfare-notifications", nil, notify.DeliveryHandler{Logger: logger}, logger)
		if err != nil {
			return fail(fmt.Errorf("kafka consumer: %w", err))
		}
		closers = append(closers, func() { _ = consumer.Close() })
		go func() {
			if err := consumer.Run(ctx, []string{cfg.KafkaTopicPrefix + cfg.NotificationTopic}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notification consumer stopped", "error", err)
			}
		}()
	} else {
		ln := notify.LogNotifier{Logger: logger}
		notifier, refunds = ln, ln
	}

	var uploader policies.ReportUploader = s3.DisabledUploader{}
	if cfg.S3Endpoint != "" {
		store, err := s3.NewReportStore(ctx, cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			return fail(fmt.Errorf("report store: %w", err))
		}
		uploader = store
	}

	encoder := appoutbox.JSONEventEncoder{}
	gateway := payments.StubGateway{Logger: logger}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory: uowFactory,
		Notifier:   notifier,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.AddPaymentCommand{}.Key(), &bookingapp.AddPaymentHandler{
		UoWFactory: uowFactory,
		Gateway:    gateway,
		Notifier:   notifier,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Refunds:    refunds,
		Notifier:   notifier,
		Outbox:     box,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CompleteTripCommand{}.Key(), &bookingapp.CompleteTripHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.SettleRefundCommand{}.Key(), &bookingapp.SettleRefundHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.AddReviewCommand{}.Key(), &bookingapp.AddReviewHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, analyticsapp.ExportReportCommand{}.Key(), &analyticsapp.ExportReportHandler{
		UoWFactory: uowFactory,
		Uploader:   uploader,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListUserBookingsQuery{}.Key(), &bookingapp.ListUserBookingsHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, analyticsapp.SummaryQuery{}.Key(), &analyticsapp.SummaryHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(),
		middleware.Idempotency(idStore, nil),
		middleware.Locking(lockManager, cfg.LockTTL),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryValidation())

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Analytics: ginserver.AnalyticsHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	}
	return app, cleanup, nil
}

type catalogFixtures struct {
	Packages []struct {
		ID              string `json:"id"`
		DestinationID   string `json:"destination_id"`
		Name            string `json:"name"`
		IsActive        bool   `json:"is_active"`
		AdultPriceMinor int64  `json:"adult_price_minor"`
		Currency        string `json:"currency"`
		MaxBookings     int    `json:"max_bookings"`
	} `json:"packages"`
	Destinations []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Country  string `json:"country"`
		IsActive bool   `json:"is_active"`
	} `json:"destinations"`
}

func loadCatalogFixtures(packages *memory.PackageRepository, destinations *memory.DestinationRepository, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("catalog fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures catalogFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	for _, d := range fixtures.Destinations {
		destinations.Put(domaincatalog.Destination{
			ID:       domaincatalog.DestinationID(d.ID),
			Name:     d.Name,
			Country:  d.Country,
			IsActive: d.IsActive,
		})
	}
	for _, p := range fixtures.Packages {
		packages.Put(domaincatalog.TravelPackage{
			ID:            domaincatalog.PackageID(p.ID),
			DestinationID: domaincatalog.DestinationID(p.DestinationID),
			Name:          p.Name,
			IsActive:      p.IsActive,
			AdultPrice:    money.Money{Amount: p.AdultPriceMinor, Currency: p.Currency},
			MaxBookings:   p.MaxBookings,
		})
	}
	logger.Info("catalog fixtures imported", "packages", len(fixtures.Packages), "destinations", len(fixtures.Destinations))
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
