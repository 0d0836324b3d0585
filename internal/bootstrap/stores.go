package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/adapters/memory"
	"github.com/target/attractions-admin/internal/adapters/postgres"
	redisadapter "github.com/target/attractions-admin/internal/adapters/redis"
	"github.com/target/attractions-admin/internal/ports"
)

// SessionStoreConfig selects and configures the durable session store.
type SessionStoreConfig struct {
	Session     config.SessionConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
}

// BuildSessionStore returns the store named by SESSION_STORE.
//
//nolint:ireturn // the configured backend decides the concrete store.
func BuildSessionStore(cfg SessionStoreConfig) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis, "":
		if cfg.RedisClient == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		prefix := cfg.Session.KeyPrefix
		if prefix == "" {
			return redisadapter.NewSessionStore(cfg.RedisClient).WithTTL(cfg.Session.TTL), nil
		}
		return redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, prefix).WithTTL(cfg.Session.TTL), nil

	case config.SessionStorePostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres session store requires a database connection")
		}
		return postgres.NewSessionStore(cfg.DB, postgres.SessionStoreOptions{TTL: cfg.Session.TTL}), nil

	case config.SessionStoreMemory:
		return memory.NewSessionStore(), nil

	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}
}
