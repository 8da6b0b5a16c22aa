package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/core/services"
	"github.com/fincast/fincast/internal/events"
	eventskafka "github.com/fincast/fincast/internal/events/kafka"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/fincast/fincast/internal/platform/database"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/repositories/database/pgsql"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.IsProduction)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established")

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if cerr := kafkaPublisher.Close(); cerr != nil {
				logger.Error("Error closing Kafka publisher", slog.String("error", cerr.Error()))
			}
		}()
		publisher = kafkaPublisher
		logger.Info("Kafka event publishing enabled", slog.String("topic", cfg.KafkaTopic))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, publisher)

	if cfg.AutoAdvanceOnStartup {
		runStartupAdvance(logging.IntoCtx(ctx, logger), repos, container)
	}

	logger.Info("fincast core ready")
	<-ctx.Done()
	logger.Info("Shutting down")
}

// runStartupAdvance catches every owner up to wall-clock today. Failures are
// logged per owner and never abort startup.
func runStartupAdvance(ctx context.Context, repos portsrepo.RepositoryProvider, container *portssvc.ServiceContainer) {
	logger := logging.FromCtx(ctx)

	ownerIDs, err := repos.OwnerRepo.ListOwnerIDs(ctx)
	if err != nil {
		logger.Error("Startup auto-advance: failed to list owners", slog.String("error", err.Error()))
		return
	}

	for _, ownerID := range ownerIDs {
		resp, err := container.Scheduler.AutoAdvance(ctx, ownerID)
		if err != nil {
			logger.Error("Startup auto-advance failed",
				slog.String("ownerID", ownerID),
				slog.String("error", err.Error()))
			continue
		}
		if resp.PostedCount > 0 || resp.PendingCreated > 0 {
			logger.Info("Startup auto-advance completed",
				slog.String("ownerID", ownerID),
				slog.Int("posted", resp.PostedCount),
				slog.Int("pendingCreated", resp.PendingCreated))
		}
	}
}
