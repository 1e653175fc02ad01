package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zapmanager/docs" // swagger docs

	"zapmanager/internal/auth"
	"zapmanager/internal/cache"
	"zapmanager/internal/config"
	"zapmanager/internal/db"
	"zapmanager/internal/gateway"
	"zapmanager/internal/handler"
	"zapmanager/internal/logger"
	"zapmanager/internal/repository"
	"zapmanager/internal/router"
	"zapmanager/internal/scheduler"
	"zapmanager/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Zap Manager API
// @version 1.0
// @description WhatsApp instance console backed by an Evolution-style gateway, with JWT authentication and role based access.
// @host localhost:3000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}

	if cfg.ResetDB {
		zl.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, zl.Named("cache"))
	defer func() { _ = cacheClient.Close() }()
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			zl.Warn("redis unreachable, token revocation degraded", zap.Error(err))
		}
	} else {
		zl.Info("REDIS_ADDR not set, token revocation disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	instanceRepo := repository.NewInstanceRepository(gormDB)
	llmRepo := repository.NewLLMConfigRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	gatewayClient := gateway.NewClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, cfg.GatewayTimeout, zl)

	// Initialize services
	auditService := service.NewAuditService(auditRepo, zl)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, auditService, zl)
	instanceService := service.NewInstanceService(instanceRepo, gatewayClient, auditService, zl, cfg.QRFetchDelay)
	llmService := service.NewLLMService(llmRepo, auditService)

	if _, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	if cfg.SyncInterval > 0 {
		sched, err := scheduler.New(instanceService, cfg.SyncInterval, zl)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, zl.Named("http"), authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(authService),
		Instance: handler.NewInstanceHandler(instanceService),
		Audit:    handler.NewAuditHandler(auditService),
		LLM:      handler.NewLLMHandler(llmService),
	})

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
