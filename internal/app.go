package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	email_adapter "listing-service/internal/adapters/email"
	gemini_adapter "listing-service/internal/adapters/gemini"
	logger_adapter "listing-service/internal/adapters/logger"
	metrics_adapter "listing-service/internal/adapters/metrics"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	redis_adapter "listing-service/internal/adapters/redis"
	"listing-service/internal/adapters/rest"
	scheduler_adapter "listing-service/internal/adapters/scheduler"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/core/classifier"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"
)

const shutdownTimeout = 15 * time.Second

// App holds every long lived component of the service.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	connManager  *rabbitmq_common.ConnectionManager
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	listingSubmittedListener port.EventListenerPort
	listingEventsProducer    *rabbitmq_producer.Publisher
	expiryScheduler          *scheduler_adapter.ExpiryScheduler
}

// NewApp is the composition root: it builds the adapters and use cases and
// wires them together.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- logging ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: appConfig.StdoutLogger.Color,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.FluentBit.TagPrefix,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		// the client prefixes tags itself
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, "", parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{config: appConfig, fluentClient: fluentClient, logger: appLogger}
	if err := application.build(baseLogger); err != nil {
		application.release()
		return nil, err
	}
	return application, nil
}

// build creates the adapters. Whatever was created before a failure is
// released by the caller.
func (a *App) build(baseLogger port.LoggerPort) error {
	cfg := a.config
	ctx := context.Background()

	// --- storage ---
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    int32(cfg.Database.MaxConns),
		MinConns:    int32(cfg.Database.MinConns),
	})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	if err := postgres_adapter.ApplyMigrations(ctx, dbPool, baseLogger.WithFields(port.Fields{"component": "migrations"})); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	draftRepo, err := postgres_adapter.NewPostgresDraftRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create draft repository: %w", err)
	}
	listingRepo, err := postgres_adapter.NewPostgresListingRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create listing repository: %w", err)
	}
	wantedRepo, err := postgres_adapter.NewPostgresWantedRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create wanted repository: %w", err)
	}
	savedSearchRepo, err := postgres_adapter.NewPostgresSavedSearchRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create saved search repository: %w", err)
	}
	notificationRepo, err := postgres_adapter.NewPostgresNotificationRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create notification repository: %w", err)
	}
	a.logger.Info("Postgres repositories initialized.", nil)

	redisClient, err := redis_adapter.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		a.logger.Error("Failed to connect to Redis", err, nil)
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.redisClient = redisClient
	extractStore, err := redis_adapter.NewExtractStore(redisClient, cfg.Redis.DraftTTL)
	if err != nil {
		return fmt.Errorf("failed to create extract store: %w", err)
	}
	a.logger.Info("Redis extract store initialized.", nil)

	// --- ambient services ---
	var (
		metrics        port.MetricsPort = metrics_adapter.NoopMetrics{}
		metricsHandler http.Handler
		httpObserver   rest.HTTPObserver
	)
	if cfg.Metrics.Enabled {
		prom := metrics_adapter.NewPrometheusMetrics()
		metrics, metricsHandler, httpObserver = prom, prom.Handler(), prom
	}

	// ai stays a nil interface when no key is configured
	var ai port.AIClientPort
	if cfg.AI.APIKey != "" {
		geminiClient, err := gemini_adapter.NewClient(gemini_adapter.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create gemini client: %w", err)
		}
		ai = geminiClient
		a.logger.Info("Gemini client initialized.", port.Fields{"model": cfg.AI.Model})
	} else {
		a.logger.Warn("AI is disabled, using keyword rules only", nil)
	}

	var mailer port.MailerPort
	if cfg.SMTP.Enabled {
		smtpMailer, err := email_adapter.NewSMTPMailer(email_adapter.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return fmt.Errorf("failed to create SMTP mailer: %w", err)
		}
		mailer = smtpMailer
	} else {
		mailer = email_adapter.NewLogMailer(baseLogger.WithFields(port.Fields{"component": "log_mailer"}))
	}

	// --- messaging ---
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.GetManager(cfg.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeListingEvents,
		ExchangeType:             constants.ExchangeListingEventsType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		a.logger.Error("Failed to create listing events producer", err, nil)
		return fmt.Errorf("failed to create listing events producer: %w", err)
	}
	a.listingEventsProducer = producer

	listingEvents, err := rabbitmq_adapter.NewListingEventsAdapter(producer, constants.RoutingKeyListingSubmitted)
	if err != nil {
		return fmt.Errorf("failed to create listing events adapter: %w", err)
	}

	// --- use cases ---
	categoryClassifier := classifier.NewClassifier(ai, cfg.AI.Timeout, metrics)

	notifyForListing := usecase.NewNotifyForListingUseCase(listingRepo, wantedRepo, savedSearchRepo, notificationRepo, mailer, metrics, cfg.Matching.Workers)
	expireListings := usecase.NewExpireListingsUseCase(listingRepo, metrics)

	useCases := rest.UseCases{
		CreateDraft:       usecase.NewCreateDraftUseCase(draftRepo, extractStore, categoryClassifier, ai, 0, metrics),
		GetDraft:          usecase.NewGetDraftUseCase(draftRepo, extractStore),
		SubmitListing:     usecase.NewSubmitListingUseCase(draftRepo, extractStore, listingRepo, listingEvents),
		SearchListings:    usecase.NewSearchListingsUseCase(listingRepo),
		GetListing:        usecase.NewGetListingUseCase(listingRepo),
		ListMyListings:    usecase.NewListMyListingsUseCase(listingRepo),
		ClassifyListing:   usecase.NewClassifyListingUseCase(categoryClassifier),
		CreateWanted:      usecase.NewCreateWantedUseCase(wantedRepo, listingRepo, notificationRepo, mailer, metrics, cfg.Matching.SweepLimit, cfg.Matching.Workers),
		ListWanted:        usecase.NewListWantedUseCase(wantedRepo),
		ListMyWanted:      usecase.NewListMyWantedUseCase(wantedRepo),
		CloseWanted:       usecase.NewCloseWantedUseCase(wantedRepo),
		RespondToWanted:   usecase.NewRespondToWantedUseCase(wantedRepo, listingRepo, notificationRepo, mailer, metrics),
		CreateSavedSearch: usecase.NewCreateSavedSearchUseCase(savedSearchRepo),
		ListSavedSearches: usecase.NewListSavedSearchesUseCase(savedSearchRepo),
		DeleteSavedSearch: usecase.NewDeleteSavedSearchUseCase(savedSearchRepo),
		ListNotifications: usecase.NewListNotificationsUseCase(notificationRepo),
	}
	a.logger.Info("Use cases initialized.", nil)

	// --- inbound adapters ---
	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		QueueName:              constants.QueueListingSubmitted,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ExchangeListingEvents,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.ExchangeListingEventsType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyListingSubmitted,
		PrefetchCount:          cfg.Matching.Workers,
		ConsumerTag:            cfg.AppName + "-listing-submitted",
		EnableRetryMechanism:   true,
		RetryExchange:          constants.RetryExchange,
		RetryQueue:             constants.RetryQueue,
		RetryTTL:               constants.RetryTTLMillis,
		FinalDLXExchange:       constants.FinalDLXExchange,
		FinalDLQ:               constants.FinalDLQ,
		FinalDLQRoutingKey:     constants.FinalDLQRoutingKey,
		MaxRetries:             constants.MaxRetries,
	}
	listener, err := rabbitmq_adapter.NewListingSubmittedConsumerAdapter(consumerCfg, notifyForListing, baseLogger, connManager)
	if err != nil {
		a.logger.Error("Failed to create listing submitted listener", err, nil)
		return err
	}
	a.listingSubmittedListener = listener
	a.logger.Info("Listing Submitted Events Listener initialized.", nil)

	a.expiryScheduler = scheduler_adapter.NewExpiryScheduler(cfg.Scheduler.ExpirySpec, expireListings, baseLogger)

	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           cfg.Rest.Port,
		AllowedOrigins: cfg.Rest.AllowedOrigins,
		MetricsHandler: metricsHandler,
		Observer:       httpObserver,
	}, rest.NewHandlers(useCases), baseLogger)
	a.logger.Info("REST API server configured.", nil)

	return nil
}

// Run starts the listener, the scheduler and the HTTP server and blocks until
// a signal arrives or one of them fails.
func (a *App) Run() error {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Listing Submitted Events Listener"})
		listenerLogger.Info("Starting listener...", nil)
		if err := a.listingSubmittedListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("listing submitted listener error: %w", err)
			return
		}
		listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
	}()

	if err := a.expiryScheduler.Start(appCtx); err != nil {
		a.logger.Error("Failed to start expiry scheduler", err, nil)
		stop()
		wg.Wait()
		a.release()
		return err
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- err
		}
	}()

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case <-appCtx.Done():
		a.logger.Warn("Received OS signal, shutting down...", nil)
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}
	stop()

	a.logger.Info("Shutdown sequence initiated...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}
	a.expiryScheduler.Stop()

	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()
	a.logger.Info("All background processes finished.", nil)

	a.release()
	return runErr
}

// release closes the resources in reverse order of creation. It is safe on a
// partially built App.
func (a *App) release() {
	if a.listingSubmittedListener != nil {
		if err := a.listingSubmittedListener.Close(); err != nil {
			a.logger.Error("Error closing listing submitted listener", err, nil)
		}
	}
	if a.listingEventsProducer != nil {
		if err := a.listingEventsProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent may already be unreachable
			fmt.Fprintf(os.Stderr, "ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
