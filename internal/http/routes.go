// Package httpx provides the HTTP surface of the attractions admin dashboard:
// session middleware, the route guard, auth and proxy handlers, and page rendering.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/routes"
	"github.com/target/attractions-admin/internal/service"
)

// RouterOptions holds everything the HTTP router needs.
type RouterOptions struct {
	Sessions    Sessions      // Required
	Table       *routes.Table // Required
	Users       *service.UserService
	Attractions *service.AttractionService
	// Pages renders route-table pages. Defaults to the embedded templates.
	Pages *PageRenderer
	// AppDir, when set, is served under /static/ for the dashboard bundle's assets.
	AppDir          string
	CookieDomain    string
	SecureCookies   bool
	ReadinessChecks []ReadinessCheck
	Metrics         statsd.Sink
	Logger          *slog.Logger
}

// NewRouter creates the HTTP handler with the full middleware chain:
// Recover, Logging, ClientScope, Rehydrate, BrowserDetection, then the mux.
func NewRouter(opts RouterOptions) (http.Handler, error) {
	if opts.Sessions == nil {
		return nil, errors.New("router requires a session provider")
	}
	if opts.Table == nil {
		return nil, errors.New("router requires a route table")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pages := opts.Pages
	if pages == nil {
		var err error
		if pages, err = NewPageRenderer(PageRendererConfig{LoginPath: opts.Table.LoginPath, Logger: logger}); err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	authHandlers := &AuthHandlers{
		Sessions:       opts.Sessions,
		LoginPath:      opts.Table.LoginPath,
		AfterLoginPath: opts.Table.AfterLoginPath,
		Logger:         logger,
	}
	registerAuthRoutes(mux, authHandlers)

	guardFor := func(name string, role domainauth.Role) func(http.Handler) http.Handler {
		return Guard(GuardOptions{Sessions: opts.Sessions, Role: role, Name: name, Metrics: opts.Metrics})
	}
	if opts.Users != nil {
		registerUserRoutes(mux, &UserHandlers{Svc: opts.Users, Logger: logger}, guardFor("api_users", domainauth.RoleAdmin))
	}
	if opts.Attractions != nil {
		registerAttractionRoutes(mux, &AttractionHandlers{Svc: opts.Attractions, Logger: logger}, guardFor("api_attractions", ""))
	}

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /readyz", readinessHandler{checks: opts.ReadinessChecks})
	if opts.AppDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(opts.AppDir, "static")))))
	}
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("no such endpoint")})
	})
	mux.Handle("/", newTableRouter(tableRouterOptions{
		Table:    opts.Table,
		Sessions: opts.Sessions,
		Pages:    pages,
		Metrics:  opts.Metrics,
	}))

	return Chain(mux,
		Recover(logger),
		Logging(logger),
		ClientScope(ClientScopeOptions{CookieDomain: opts.CookieDomain, SecureCookies: opts.SecureCookies}),
		Rehydrate(RehydrateOptions{
			Sessions:     opts.Sessions,
			Logger:       logger,
			SkipPrefixes: []string{"/healthz", "/readyz", "/static/"},
		}),
		BrowserDetection(),
	), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.APILogin)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/session", h.Status)
	mux.HandleFunc("POST "+h.LoginPath, h.FormLogin)
	mux.HandleFunc("POST /logout", h.Logout)
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/users", guard(http.HandlerFunc(h.List)))
	mux.Handle("PATCH /api/users/role", guard(http.HandlerFunc(h.EditRoles)))
	mux.Handle("POST /api/users/delete", guard(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/users/activate", guard(http.HandlerFunc(h.Activate)))
}

func registerAttractionRoutes(mux *http.ServeMux, h *AttractionHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/attractions", guard(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/attractions/{id}", guard(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/attractions/{id}", guard(http.HandlerFunc(h.Update)))
}
