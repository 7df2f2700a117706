package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-agent/internal/api/http"
	"github.com/spec-kit/ticket-agent/internal/api/http/handlers"
	"github.com/spec-kit/ticket-agent/internal/auth"
	"github.com/spec-kit/ticket-agent/internal/classifier"
	"github.com/spec-kit/ticket-agent/internal/config"
	"github.com/spec-kit/ticket-agent/internal/events"
	"github.com/spec-kit/ticket-agent/internal/jira"
	"github.com/spec-kit/ticket-agent/internal/observability"
	"github.com/spec-kit/ticket-agent/internal/persistence"
	"github.com/spec-kit/ticket-agent/internal/repository"
	"github.com/spec-kit/ticket-agent/internal/service"
	"github.com/spec-kit/ticket-agent/internal/slack"
	"github.com/spec-kit/ticket-agent/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	audit := service.NewAuditService(dispatcher, metrics, logger)
	audit.RegisterHandlers()

	records := repository.NewTicketLogRepository(pg.PoolHandle())
	jiraClient := jira.NewClient(cfg.Jira, logger)
	slackClient := slack.NewClient(cfg.Slack, logger)
	engine := classifier.NewEngine(cfg.Classifier, logger)
	tasks := worker.NewPool(logger)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Classifier: engine,
		Tracker:    jiraClient,
		Records:    records,
		Notifier:   slackClient,
		Dispatcher: dispatcher,
		Tasks:      tasks,
		JiraCfg:    cfg.Jira,
		Logger:     logger,
	})
	actionService := service.NewActionService(records, slackClient, dispatcher, logger)
	statusService := service.NewStatusService(jiraClient, slackClient, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	slackHandler := handlers.NewSlackHandler(intakeService, actionService, statusService, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        healthHandler,
		Slack:         slackHandler,
		SlackVerifier: auth.NewSlackVerifier(cfg.Slack.SigningSecret, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
