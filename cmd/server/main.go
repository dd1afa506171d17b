package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gadget_backend/internal/app/di"
	"gadget_backend/internal/app/router"
	authhandler "gadget_backend/internal/feature/auth/transport/handler"
	authusecase "gadget_backend/internal/feature/auth/usecase"
	cataloghandler "gadget_backend/internal/feature/catalog/transport/handler"
	catalogusecase "gadget_backend/internal/feature/catalog/usecase"
	"gadget_backend/internal/platform/config"
	jwtmw "gadget_backend/internal/platform/jwt"
	"gadget_backend/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.New(cfg.Env, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	stores, err := di.NewStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Redis
	rdb := di.NewRedis(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Redisキャッシュでラップ
	catalogRepo := di.NewCatalogRepository(rdb, cfg.CacheTTL, stores.Catalog)

	// Usecase
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiresIn)
	authUC := authusecase.NewAuthUsecase(stores.Users, tokens)
	catalogUC := catalogusecase.NewCatalogUsecase(catalogRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	catalogH := cataloghandler.NewCatalogHandler(catalogUC)

	// ルータ生成
	r := router.NewRouter(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, tokens, authH, catalogH)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
