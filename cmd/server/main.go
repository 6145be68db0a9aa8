package main

import (
	"context"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/auth"
	"github.com/recruiterhub/backend/internal/cache"
	"github.com/recruiterhub/backend/internal/chat"
	"github.com/recruiterhub/backend/internal/config"
	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/engagement"
	"github.com/recruiterhub/backend/internal/logger"
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/relationship"
	"github.com/recruiterhub/backend/internal/seed"
	"github.com/recruiterhub/backend/internal/server"
	"github.com/recruiterhub/backend/internal/stream"
	"github.com/recruiterhub/backend/internal/treestore"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	store := treestore.New(database)
	appCtx := app.New(database, store, redisCache, log)

	// Services; the dependency order matters: notifications need profiles,
	// edges and posts need notifications.
	profiles := profile.NewService(appCtx)
	notifications := notification.NewService(appCtx, profiles)
	relationships := relationship.NewService(appCtx, notifications)
	posts := engagement.NewService(appCtx, notifications, relationships)
	conversations := chat.NewService(appCtx)
	authSvc := auth.NewService(cfg.Auth.JWTSecret, appCtx, profiles)
	hub := stream.NewHub(store, redisCache.Client, log)

	authMW := auth.Middleware(authSvc)

	registrars := []server.Registrar{
		auth.NewRegistrar(authSvc),
		profile.NewRegistrar(profiles, authMW),
		relationship.NewRegistrar(relationships, authMW),
		engagement.NewRegistrar(posts, authMW),
		notification.NewRegistrar(notifications, authMW),
		chat.NewRegistrar(conversations, authMW),
		stream.NewRegistrar(hub),
	}

	if cfg.App.ENV == "development" {
		if err := seed.DemoData(context.Background(), appCtx, cfg.Auth.JWTSecret); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
