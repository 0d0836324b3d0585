package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"
	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/migrate"
)

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB establishes a connection to the PostgreSQL database.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	dsn := postgresDSN(cfg.DBConfig)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Session reads and writes are single-row; a small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err = ping(db.PingContext, db.Close, "database"); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}

	return db, nil
}

// postgresDSN builds the DSN with url.URL to safely handle special characters in credentials.
func postgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ping verifies a freshly opened connection and closes it when unreachable.
func ping(pingFn func(context.Context) error, closeFn func() error, what string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := pingFn(ctx); pingErr != nil {
		if closeErr := closeFn(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close %s connection: %w", what, closeErr))
		}
		return fmt.Errorf("ping %s: %w", what, pingErr)
	}
	return nil
}

type redisMode int

const (
	redisDirect redisMode = iota
	redisSentinel
	redisCluster
)

func (m redisMode) String() string {
	switch m {
	case redisSentinel:
		return "sentinel"
	case redisCluster:
		return "cluster"
	default:
		return "direct"
	}
}

// ConnectRedis opens a direct, sentinel, or cluster client depending on
// REDIS_USE_CLUSTER and REDIS_USE_SENTINEL, and pings it.
//
//nolint:ireturn // the concrete client type depends on configuration.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	mode, opts, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch mode {
	case redisCluster:
		client = redis.NewClusterClient(opts.Cluster())
	case redisSentinel:
		client = redis.NewFailoverClient(opts.Failover())
	default:
		client = redis.NewClient(opts.Simple())
	}

	redisPing := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err = ping(redisPing, client.Close, "redis"); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		// Addresses only; credentials never reach the log.
		cfg.Logger.Info("redis connected",
			"mode", mode.String(),
			"addrs", strings.Join(opts.Addrs, ","),
			"db", opts.DB,
		)
	}
	return client, nil
}

// redisOptions turns the flat env settings into go-redis universal options.
// REDIS_URI may be a host:port or a redis:// / rediss:// URL; URL credentials,
// database and TLS settings take precedence over the separate variables.
func redisOptions(cfg config.RedisConfig) (redisMode, *redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	mode := redisDirect
	switch {
	case cfg.UseCluster:
		mode = redisCluster
	case cfg.UseSentinel:
		mode = redisSentinel
	}

	if mode == redisSentinel {
		opts.Addrs = nonEmpty(cfg.SentinelNodes)
		if len(opts.Addrs) == 0 {
			return mode, nil, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return mode, opts, nil
	}

	if mode == redisCluster {
		opts.Addrs = nonEmpty(cfg.ClusterNodes)
		// Cluster mode has no database selection.
		opts.DB = 0
		if len(opts.Addrs) > 0 {
			return mode, opts, nil
		}
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return mode, nil, fmt.Errorf("redis %s configuration requires an address", mode)
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return mode, opts, nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return mode, nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	if mode == redisDirect && parsed.DB != 0 {
		opts.DB = parsed.DB
	}
	opts.TLSConfig = parsed.TLSConfig
	return mode, opts, nil
}

func nonEmpty(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RunMigrations applies the session table migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}

	return nil
}
