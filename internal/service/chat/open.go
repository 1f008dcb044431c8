package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/guardianlink/backend/internal/config"
)

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		log.Printf("[history] using in-memory store")
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		log.Printf("[history] using sqlite store at %s", cfg.SQLitePath)
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendPostgres:
		log.Printf("[history] using postgres store")
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.BackendRedis:
		log.Printf("[history] using redis store at %s", cfg.RedisAddr)
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
