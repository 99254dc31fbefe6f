package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/Rafaeloliveira945093/support-script-hub/internal/api/http"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/api/http/handlers"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/auth"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/config"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/events"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/observability"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/persistence"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/repository"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	pool := postgres.PoolHandle()

	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)
	linkRepo := repository.NewLinkRepository(pool)
	auditLogRepo := repository.NewAuditLogRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	center := service.NewNotificationCenter(notificationRepo, redis, logger)
	center.RegisterHandlers(dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		ResponseRepo:  responseRepo,
		LinkRepo:      linkRepo,
		AuditLogRepo:  auditLogRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
		DeadlineHours: cfg.SLA.DeadlineBusinessHours,
	})
	sweepService := service.NewSweepService(service.SweepDependencies{
		TicketRepo:    ticketRepo,
		Center:        center,
		Dispatcher:    dispatcher,
		Logger:        logger,
		Metrics:       metrics,
		DeadlineHours: cfg.SLA.DeadlineBusinessHours,
	})
	reportService := service.NewReportService(ticketRepo, responseRepo)

	sweepWorker := worker.NewSweepWorker(sweepService, cfg.SLA, logger)
	sweepWorker.Start(ctx)
	defer sweepWorker.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
		ErrorHandler: httpapi.NewErrorHandler(logger, metrics),
	})

	httpapi.RegisterRoutes(app, httpapi.RouterDependencies{
		Logger:         logger,
		Metrics:        metrics,
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(center),
		Catalog:        handlers.NewCatalogHandler(catalogRepo),
		Reports:        handlers.NewReportsHandler(reportService),
		Reconcile:      handlers.NewReconcileHandler(sweepService),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	sweepWorker.Stop()
	if err := app.Shutdown(); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
