package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outfitcult/internal/auth"
	"github.com/outfitcult/internal/config"
	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/handler"
	"github.com/outfitcult/internal/logger"
	"github.com/outfitcult/internal/router"
	"github.com/outfitcult/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	dsn := cfg.DatabasePath
	if cfg.DatabaseDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	gdb, err := db.Open(cfg.DatabaseDriver, dsn, !cfg.IsRelease())
	if err != nil {
		log.Error("failed to initialize database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if user, err := db.EnsureUser(gdb, cfg.SuperRootUserName, cfg.SuperRootPassword, cfg.SuperRootUserName); err != nil {
		log.Error("failed to ensure super root user", "error", err)
		os.Exit(1)
	} else if user != nil {
		log.Info("super root user ready", "username", user.Username)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	sessions := auth.NewProvider(gdb, log)
	sessions.Subscribe(func(event auth.Event) {
		if event.Identity != nil {
			log.Info("session changed", "event", event.Type, "username", event.Identity.Username)
		}
	})

	api := handler.NewAPI(gdb, handler.Options{
		SiteName: cfg.SiteName,
		Rollback: cfg.AuthoringRollback,
		Logger:   log,
		Storage:  store,
		Sessions: sessions,
	})

	routerOpts := router.Options{
		SessionSecret: cfg.SessionSecret,
		CookieSecure:  cfg.CookieSecure,
		Logger:        log,
	}
	if cfg.StorageDriver == "local" {
		routerOpts.UploadDir = cfg.UploadDir
		routerOpts.UploadURLPath = cfg.UploadURLPath
	}
	r, err := router.SetupRouter(api, routerOpts)
	if err != nil {
		log.Error("failed to set up router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr, "storage", cfg.StorageDriver, "rollback", cfg.AuthoringRollback)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
