package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where client sessions are persisted.
type SessionStoreKind string

const (
	SessionStoreRedis    SessionStoreKind = "redis"
	SessionStorePostgres SessionStoreKind = "postgres"
	SessionStoreMemory   SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "postgres", "memory":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStore: %q (valid options: redis, postgres, memory)", v)
	}
}

const minMemoryIdleTimeout = time.Minute

// SessionConfig controls the durable session store and how sessions are rehydrated.
type SessionConfig struct {
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"redis"`

	// TTL expires stored sessions. Zero keeps them until logout.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"0"`

	// HonorTokenExpiry discards a rehydrated session whose token is an expired JWT.
	// Off by default: a stored pair persists until an explicit logout.
	HonorTokenExpiry bool `env:"SESSION_HONOR_TOKEN_EXPIRY" envDefault:"false"`

	// MemoryIdleTimeout evicts a client's in-memory copy after this long without
	// a request. The durable copy is untouched and is re-read on the next request.
	MemoryIdleTimeout time.Duration `env:"SESSION_MEMORY_IDLE_TIMEOUT" envDefault:"30m"`

	// KeyPrefix namespaces Redis keys.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"dashboard:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Store == "" {
		s.Store = SessionStoreRedis
	}
	if s.TTL < 0 {
		s.TTL = 0
	}
	if s.MemoryIdleTimeout < minMemoryIdleTimeout {
		s.MemoryIdleTimeout = minMemoryIdleTimeout
	}
	s.KeyPrefix = strings.TrimSpace(s.KeyPrefix)
	if s.KeyPrefix != "" && !strings.HasSuffix(s.KeyPrefix, ":") {
		s.KeyPrefix += ":"
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"attractions"`
	Password string `env:"PASSWORD"                envDefault:"attractions"`
	Name     string `env:"NAME"                    envDefault:"attractions_admin"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // 'require' in production
	// RunMigrationsOnStart applies the session table migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
