package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/config"
	"github.com/sthapati/sthapati_be/internal/db"
	"github.com/sthapati/sthapati_be/internal/logger"
	"github.com/sthapati/sthapati_be/internal/metrics"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/realtime"
	"github.com/sthapati/sthapati_be/internal/storage"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/workers"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.DBDSN, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}
	if err := db.SeedFirstAdmin(gdb, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
		log.Fatal("seed first admin", zap.Error(err))
	}

	rdb, err := realtime.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	files, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}

	st := store.New(gdb)
	m := metrics.New()

	hub := realtime.NewHub()
	go hub.Run(ctx)
	m.TrackGauge("websocket_clients", "Connected websocket clients.", func() float64 {
		return float64(hub.ClientCount())
	})

	sweeper := workers.NewAnnouncementSweeper(st.Announcements, cfg.AnnouncementSweepInterval)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "sthapati",
		ErrorHandler: apperrors.ErrorHandler(cfg.IsDevelopment()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    12 << 20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics(m))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	registerRoutes(app, &deps{
		cfg:     cfg,
		store:   st,
		rdb:     rdb,
		hub:     hub,
		storage: files,
		metrics: m,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("http server stopped", zap.Error(err))
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
