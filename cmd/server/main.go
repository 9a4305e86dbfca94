package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"campusfeed/internal/cache"
	"campusfeed/internal/config"
	"campusfeed/internal/database"
	"campusfeed/internal/middleware"
	"campusfeed/internal/notifications"
	"campusfeed/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	cache.InitRedis(cfg.RedisURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := notifications.NewHub()

	// With Redis available events flow through pub/sub so every instance's hub
	// sees them; publishing directly to the local hub as well would deliver
	// twice. Without Redis the publisher talks to the local hub alone.
	var publisher *notifications.Publisher
	if rdb := cache.GetClient(); rdb != nil {
		notifier := notifications.NewNotifier(rdb)
		if err := hub.StartWiring(ctx, notifier); err != nil {
			middleware.Logger.Warn("Redis subscriber unavailable, falling back to in-process delivery", "error", err)
			publisher = notifications.NewPublisher(hub, nil)
		} else {
			publisher = notifications.NewPublisher(nil, notifier)
		}
	} else {
		publisher = notifications.NewPublisher(hub, nil)
	}

	srv := server.NewServer(cfg, db, hub, publisher)

	app := fiber.New(fiber.Config{
		AppName:      "campusfeed",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	go func() {
		middleware.Logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			middleware.Logger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	middleware.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := hub.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.Error("Hub shutdown error", "error", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		middleware.Logger.Error("HTTP shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	middleware.Logger.Info("Shutdown complete")
}
