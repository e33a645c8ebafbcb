package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"unitdesk/config"
	"unitdesk/config/database"
	"unitdesk/internal/cache"
	"unitdesk/internal/canvas"
	"unitdesk/internal/registry"
	"unitdesk/internal/render"
	"unitdesk/internal/template/repository"
	"unitdesk/internal/template/service"
	"unitdesk/pkg/logger"
	"unitdesk/router"
	"unitdesk/socket"
)

func main() {
	cfg := config.Load()
	logger.InitLevel(logger.ParseLevel(cfg.LogLevel))
	defer logger.Log.Sync()
	for _, w := range cfg.Warnings {
		logger.Sugar.Warn(w)
	}

	if cfg.JWTSecret == "" {
		logger.Sugar.Fatal("JWT_SECRET environment variable not set")
	}

	db := database.Connect(cfg.DB)
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Sugar.Fatalf("Failed to prepare database: %v", err)
	}

	renderer := render.New(registry.Default())
	repo := repository.NewTemplateRepository(db)

	hub := socket.NewHub(repo, renderer, socket.WithEngineOptions(canvas.Options{
		Bounds: cfg.FieldBounds,
		View:   canvas.View{Page: cfg.Canvas, Zoom: 1},
	}))
	go hub.Run()

	reaper, err := hub.StartReaper(cfg.SessionSweep, cfg.SessionIdleTimeout)
	if err != nil {
		logger.Sugar.Fatalf("Invalid SESSION_SWEEP %q: %v", cfg.SessionSweep, err)
	}
	defer reaper.Stop()

	svc := service.NewTemplateService(repo, renderer, hub, cfg.Paper)
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.Conf{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, Prefix: "unitdesk:artifact:"})
		defer rc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			logger.Sugar.Warnf("Redis unavailable, rendering without cache: %v", err)
		} else {
			svc.Cache = rc
			svc.CacheTTL = cfg.CacheTTL
		}
		cancel()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(cfg, db, hub, svc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Sugar.Infof("Template engine listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar.Errorf("Shutdown: %v", err)
	}
}
