package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/api"
	"github.com/evandahm/reviewdesk/internal/catalog"
	"github.com/evandahm/reviewdesk/internal/config"
	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/remote"
	"github.com/evandahm/reviewdesk/internal/repository"
	"github.com/evandahm/reviewdesk/internal/review"
	"github.com/evandahm/reviewdesk/pkg/database"
	"github.com/evandahm/reviewdesk/pkg/utils"
)

func main() {
	configPath := os.Getenv("REVIEWDESK_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting review dashboard service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize the local decision log database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	historyRepo := repository.NewDecisionLogRepository(db.DB, logger)

	// Initialize remote service clients
	client := remote.NewClient(remote.Config{
		PlanStoreURL:  cfg.Remote.PlanStoreURL,
		IdentityURL:   cfg.Remote.IdentityURL,
		CatalogURL:    cfg.Remote.CatalogURL,
		AuthToken:     cfg.Remote.AuthToken,
		Timeout:       cfg.Remote.Timeout,
		RetryAttempts: cfg.Remote.RetryAttempts,
	}, logger)

	names := catalog.NewNameCache(client, logger)

	// Resolve the reviewer session. Identity failures do not stop the
	// process: the server still comes up, serves /health, and answers
	// every review endpoint with the blocking error.
	dashboard, identityErr := buildDashboard(client, names, historyRepo, cfg, logger)
	if identityErr != nil {
		logger.Warn("Reviewer identity resolution failed, review endpoints are blocked",
			zap.Error(identityErr))
	}

	server := api.NewServer(api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, dashboard, historyRepo, identityErr, logger)

	// Wait for interrupt signal to gracefully shutdown the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// buildDashboard resolves the reviewer identity and assembles the
// reconciliation core. A nil dashboard with a non-nil error means the
// session is blocked from reviewing.
func buildDashboard(
	client *remote.Client,
	names *catalog.NameCache,
	history *repository.DecisionLogRepository,
	cfg *config.Config,
	logger *zap.Logger,
) (*review.Dashboard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	payload, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}

	scope, err := identity.Resolve(payload)
	if err != nil {
		return nil, err
	}

	logger.Info("Reviewer session resolved",
		zap.Int("organizations", len(scope.OrganizationIDs)),
		zap.Int("reviewer_records", len(scope.ReviewerRecordIDs)),
		zap.Bool("reviewer_only", scope.ReviewerOnly))

	dashboard := review.NewDashboard(scope, client, names, history, review.Config{
		PageLimit:        cfg.Review.PageLimit,
		SuccessNoticeTTL: cfg.Review.SuccessNoticeTTL,
		ErrorNoticeTTL:   cfg.Review.ErrorNoticeTTL,
	}, logger)

	return dashboard, nil
}
