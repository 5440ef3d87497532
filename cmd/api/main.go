package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/nexdesk/portal-service/internal/api/http"
	"github.com/nexdesk/portal-service/internal/api/http/handlers"
	"github.com/nexdesk/portal-service/internal/auth"
	"github.com/nexdesk/portal-service/internal/config"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/observability"
	"github.com/nexdesk/portal-service/internal/persistence"
	"github.com/nexdesk/portal-service/internal/relay"
	"github.com/nexdesk/portal-service/internal/repository"
	"github.com/nexdesk/portal-service/internal/service"
	"github.com/nexdesk/portal-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	incidentRepo := repository.NewIncidentRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	timingRepo := repository.NewTimingEventRepository(pool)
	messageRepo := repository.NewSessionMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	mfaManager := auth.NewMFAManager(auth.NewRedisCodeStore(rdb.Client), cfg.Auth.MFACodeTTL())
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		StaffRepo: staffRepo,
		MFA:       mfaManager,
		Logger:    logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, staffRepo)

	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: incidentRepo,
		StaffRepo:    staffRepo,
		Dispatcher:   dispatcher,
	})
	sessionService := service.NewSessionService(service.SessionDependencies{
		SessionRepo: sessionRepo,
		TimingRepo:  timingRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
	})
	kbService := service.NewKBService(articleRepo)
	catalogService := service.NewCatalogService(catalogRepo, incidentService)
	assetService := service.NewAssetService(assetRepo, userRepo)

	tracker := service.NewSLATracker(service.SLATrackerDependencies{
		SessionRepo: sessionRepo,
		TimingRepo:  timingRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	tracker.RegisterHandlers()

	notificationRelay := relay.New(notificationRepo, rdb.Client, logger, cfg.Relay.SubscriberBuffer)
	notificationRelay.RegisterHandlers(dispatcher)
	go notificationRelay.Run(ctx)

	slaCron, err := worker.StartSLAWorker(cfg.SLA.PollSchedule, tracker, logger)
	if err != nil {
		logger.Fatal("failed to start sla worker", zap.Error(err))
	}
	defer slaCron.Stop()

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb),
		Users:          handlers.NewUsersHandler(authService),
		Staff:          handlers.NewStaffHandler(authService),
		Incidents:      handlers.NewIncidentsHandler(incidentService),
		Sessions:       handlers.NewSessionsHandler(sessionService, tracker),
		Notifications:  handlers.NewNotificationsHandler(notificationRelay),
		KB:             handlers.NewKBHandler(kbService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Assets:         handlers.NewAssetsHandler(assetService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
