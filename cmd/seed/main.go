package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"zapmanager/internal/auth"
	"zapmanager/internal/cache"
	"zapmanager/internal/config"
	"zapmanager/internal/db"
	"zapmanager/internal/gateway"
	"zapmanager/internal/logger"
	"zapmanager/internal/repository"
	"zapmanager/internal/service"
)

// seed bootstraps a fresh database: it ensures the administrator account exists and mirrors the
// gateway's current instances once.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(context.Background(), cfg, zl); err != nil {
		zl.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	zl.Info("starting seed", zap.String("driver", cfg.DBDriver))

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	zl.Info("database migrations completed")

	auditService := service.NewAuditService(repository.NewAuditLogRepository(gormDB), zl)
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret),
		auth.NewTokenStore(cache.New("", "", 0, zl)),
		auditService,
		zl,
	)

	created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	zl.Info("administrator checked", zap.String("username", cfg.AdminUsername), zap.Bool("created", created))

	instanceService := service.NewInstanceService(
		repository.NewInstanceRepository(gormDB),
		gateway.NewClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, cfg.GatewayTimeout, zl),
		auditService,
		zl,
		cfg.QRFetchDelay,
	)

	stats, err := instanceService.Sync(ctx)
	if err != nil {
		// The gateway may not be up yet; the server syncs on every listing anyway.
		zl.Warn("instance sync skipped", zap.Error(err))
		return nil
	}

	zl.Info("seed completed",
		zap.Int("remote_instances", stats.Remote),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
	)
	return nil
}
