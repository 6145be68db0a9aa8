package main

import (
	"context"
	"log"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/cache"
	"github.com/recruiterhub/backend/internal/config"
	"github.com/recruiterhub/backend/internal/db"
	"github.com/recruiterhub/backend/internal/logger"
	"github.com/recruiterhub/backend/internal/seed"
	"github.com/recruiterhub/backend/internal/treestore"
)

func main() {
	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	store := treestore.New(database)
	appCtx := app.New(database, store, redisCache, logger.L())

	if err := seed.DemoData(context.Background(), appCtx, cfg.Auth.JWTSecret); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
