package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/adapters/backend"
	"github.com/target/attractions-admin/internal/adapters/reaper"
	httpx "github.com/target/attractions-admin/internal/http"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
	"github.com/target/attractions-admin/internal/routes"
	"github.com/target/attractions-admin/internal/service"
)

// Infrastructure holds the shared connections used by the enabled services.
// Either field may be nil when the configuration does not need it.
type Infrastructure struct {
	DB          *sql.DB
	RedisClient redis.UniversalClient
}

// Connect opens only the connections the configured session store and services need.
func Connect(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	if cfg.Session.Store == config.SessionStorePostgres || cfg.IsReaperEnabled() {
		db, err := ConnectDB(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		infra.DB = db

		if cfg.Postgres.RunMigrationsOnStart {
			if err = RunMigrations(ctx, db, logger); err != nil {
				return nil, errors.Join(err, infra.Close())
			}
		} else if logger != nil {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := ConnectRedis(dbCfg)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect redis: %w", err), infra.Close())
		}
		infra.RedisClient = client
	}

	return infra, nil
}

// Close releases every open connection.
func (i *Infrastructure) Close() error {
	var errs []error
	if i.RedisClient != nil {
		if err := i.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ReadinessChecks pings each open connection.
func (i *Infrastructure) ReadinessChecks() []httpx.ReadinessCheck {
	var checks []httpx.ReadinessCheck
	if i.RedisClient != nil {
		client := i.RedisClient
		checks = append(checks, httpx.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}
	if i.DB != nil {
		checks = append(checks, httpx.ReadinessCheck{Name: "postgres", Check: i.DB.PingContext})
	}
	return checks
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Store       ports.SessionStore
	Sessions    *service.SessionProvider
	Users       *service.UserService
	Attractions *service.AttractionService
	Table       *routes.Table
	Pages       *httpx.PageRenderer
	Metrics     statsd.Sink

	metricsClient *statsd.Client
}

// Close flushes and closes the metrics connection.
func (s ServiceContainer) Close() error {
	if s.metricsClient == nil {
		return nil
	}
	return s.metricsClient.Close()
}

// ServiceDeps groups what NewServices needs.
type ServiceDeps struct {
	Config *config.AppConfig
	Infra  *Infrastructure
	Logger *slog.Logger
	// Authenticator overrides the one selected by AUTH_MODE.
	Authenticator ports.Authenticator
}

// NewServices builds the session provider and the services behind the HTTP surface.
func NewServices(ctx context.Context, deps *ServiceDeps) (sc ServiceContainer, err error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	infra := deps.Infra
	if infra == nil {
		infra = &Infrastructure{}
	}

	sc.metricsClient, sc.Metrics = buildMetrics(ctx, logger, cfg.Observability.Metrics)
	defer func() {
		if err != nil {
			err = errors.Join(err, sc.Close())
		}
	}()

	store, err := BuildSessionStore(SessionStoreConfig{
		Session:     cfg.Session,
		DB:          infra.DB,
		RedisClient: infra.RedisClient,
	})
	if err != nil {
		return sc, err
	}
	sc.Store = store

	authn := deps.Authenticator
	if authn == nil {
		if authn, err = BuildAuthenticator(ctx, AuthConfig{Auth: cfg.Auth, Logger: logger}); err != nil {
			return sc, err
		}
	}

	sc.Sessions = service.NewSessionProvider(service.SessionProviderOptions{
		Store:         store,
		Authenticator: authn,
		Config: service.SessionProviderConfig{
			Logger:           logger,
			Metrics:          sc.Metrics,
			HonorTokenExpiry: cfg.Session.HonorTokenExpiry,
			IdleTimeout:      cfg.Session.MemoryIdleTimeout,
		},
	})

	if cfg.Backend.URL != "" {
		client, backendErr := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})
		if backendErr != nil {
			return sc, fmt.Errorf("backend client: %w", backendErr)
		}
		sc.Users = service.NewUserService(service.UserServiceOptions{Backend: client, Logger: logger})
		sc.Attractions = service.NewAttractionService(service.AttractionServiceOptions{Backend: client})
	}

	if sc.Table, err = routes.Load(cfg.HTTP.RoutesFile); err != nil {
		return sc, fmt.Errorf("load route table: %w", err)
	}
	sc.Pages, err = httpx.NewPageRenderer(httpx.PageRendererConfig{
		AppDir:    cfg.HTTP.AppDir,
		LoginPath: sc.Table.LoginPath,
		Logger:    logger,
	})
	if err != nil {
		return sc, fmt.Errorf("page renderer: %w", err)
	}

	return sc, nil
}

// buildMetrics returns a live StatsD client when enabled. The sink is nil otherwise,
// which every emitter treats as "metrics off".
func buildMetrics(ctx context.Context, logger *slog.Logger, cfg config.ObservabilityMetricsConfig) (*statsd.Client, statsd.Sink) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	client, err := statsd.Dial(ctx, statsd.Config{
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		GlobalTags: map[string]string{"service": "attractions-admin"},
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil, nil
	}
	return client, client
}

// BuildHTTPHandler assembles the router and its middleware chain.
func BuildHTTPHandler(cfg *config.AppConfig, sc ServiceContainer, infra *Infrastructure, logger *slog.Logger) (http.Handler, error) {
	if sc.Sessions == nil {
		return nil, errors.New("http handler requires a session provider")
	}
	opts := httpx.RouterOptions{
		Sessions:      sc.Sessions,
		Table:         sc.Table,
		Users:         sc.Users,
		Attractions:   sc.Attractions,
		Pages:         sc.Pages,
		AppDir:        cfg.HTTP.AppDir,
		CookieDomain:  cfg.HTTP.CookieDomain,
		SecureCookies: cfg.HTTP.SecureCookies,
		Metrics:       sc.Metrics,
		Logger:        logger,
	}
	if infra != nil {
		opts.ReadinessChecks = infra.ReadinessChecks()
	}
	return httpx.NewRouter(opts)
}

// RunConfig contains everything RunServices needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
}

// RunServices starts every enabled service and blocks until ctx is cancelled
// or one of them fails. The HTTP server is shut down gracefully either way.
func RunServices(ctx context.Context, rc RunConfig) error {
	if rc.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	enabled, err := rc.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	var handler http.Handler
	if enabled[config.ServiceModeHTTP] {
		if handler, err = BuildHTTPHandler(rc.Config, rc.Services, rc.Infra, logger); err != nil {
			return err
		}
	}

	var runner *reaper.Runner
	if enabled[config.ServiceModeReaper] {
		var db *sql.DB
		if rc.Infra != nil {
			db = rc.Infra.DB
		}
		runner, err = reaper.NewRunner(reaper.RunnerOptions{
			DB:      db,
			Config:  rc.Config.Reaper,
			Logger:  logger,
			Metrics: rc.Services.Metrics,
		})
		if err != nil {
			return fmt.Errorf("create reaper runner: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if handler != nil {
		if err = serveHTTP(gctx, g, rc.Config.HTTP, handler, logger); err != nil {
			return err
		}
		sessions := rc.Services.Sessions
		g.Go(func() error {
			sessions.RunJanitor(gctx)
			return nil
		})
	}
	if runner != nil {
		g.Go(func() error {
			if runErr := runner.Run(gctx); runErr != nil {
				return fmt.Errorf("session reaper failed: %w", runErr)
			}
			return nil
		})
	}

	return g.Wait()
}

// serveHTTP binds the listener up front so address errors surface immediately,
// then serves until ctx is done.
func serveHTTP(ctx context.Context, g *errgroup.Group, cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) error {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", serveErr)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")

		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("shutdown http server: %w", shutdownErr)
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return nil
}
