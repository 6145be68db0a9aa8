package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/recruiterhub/backend/internal/cache"
	"github.com/recruiterhub/backend/internal/treestore"
)

// AppContext holds shared dependencies (DB, tree store, Redis, Logger).
type AppContext struct {
	DB         *gorm.DB
	Store      *treestore.Store
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, store *treestore.Store, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		Store:      store,
		RedisCache: rdb,
		Logger:     logger,
	}
}
