package httpx

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/routes"
)

//go:embed pages/*.tmpl
var pageFS embed.FS

// PageData is what every page template receives.
type PageData struct {
	Title      string
	Path       string
	User       *domainauth.User
	LoginPath  string
	LoginError string
	Field      string
}

// PageRendererConfig holds configuration for creating a PageRenderer.
type PageRendererConfig struct {
	// AppDir holds a built dashboard bundle. When set, its index.html is served
	// for app routes instead of the embedded shell.
	AppDir    string
	LoginPath string
	Logger    *slog.Logger
}

// PageRenderer renders the three kinds of page a route can serve.
type PageRenderer struct {
	pages     map[routes.ServeKind]*template.Template
	appIndex  []byte
	loginPath string
	logger    *slog.Logger
}

var pageTitles = map[routes.ServeKind]string{ //nolint:gochecknoglobals // static read-only lookup
	routes.ServeApp:      "Dashboard",
	routes.ServeLogin:    "Login",
	routes.ServeNotFound: "404 Page Not Found",
}

var fieldMessages = map[string]string{ //nolint:gochecknoglobals // static read-only lookup
	"email":    "Email must be a valid email address",
	"password": "Password is required",
}

// NewPageRenderer parses the embedded templates and, when configured, loads the app bundle's index.
func NewPageRenderer(cfg PageRendererConfig) (*PageRenderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}

	base, err := template.New("root").Funcs(template.FuncMap{
		"isAdmin": func(u *domainauth.User) bool {
			return u != nil && domainauth.RolesMatch(u.Role, domainauth.RoleAdmin)
		},
	}).ParseFS(pageFS, "pages/*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}

	pages := make(map[routes.ServeKind]*template.Template, len(pageTitles))
	for kind := range pageTitles {
		t, cloneErr := base.Clone()
		if cloneErr != nil {
			return nil, cloneErr
		}
		if _, parseErr := t.Parse(fmt.Sprintf(`{{define "content"}}{{template "%s-content" .}}{{end}}`, kind)); parseErr != nil {
			return nil, parseErr
		}
		pages[kind] = t
	}

	p := &PageRenderer{pages: pages, loginPath: loginPath, logger: logger}
	if cfg.AppDir != "" {
		index, readErr := os.ReadFile(filepath.Join(cfg.AppDir, "index.html"))
		if readErr != nil {
			return nil, fmt.Errorf("read app bundle index: %w", readErr)
		}
		p.appIndex = index
	}
	return p, nil
}

// Render writes the page for kind with the given status.
func (p *PageRenderer) Render(w http.ResponseWriter, r *http.Request, kind routes.ServeKind, status int) {
	w.Header().Set("Cache-Control", "no-store")

	if kind == routes.ServeApp && p.appIndex != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = w.Write(p.appIndex)
		}
		return
	}

	t, ok := p.pages[kind]
	if !ok {
		p.logger.ErrorContext(r.Context(), "unknown page kind", "kind", string(kind))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:     pageTitles[kind],
		Path:      r.URL.Path,
		User:      CurrentUser(r.Context()),
		LoginPath: p.loginPath,
	}
	if kind == routes.ServeLogin && r.URL.Query().Get("error") != "" {
		data.Field = r.URL.Query().Get("field")
		data.LoginError = wrongCredentials
		if msg, known := fieldMessages[data.Field]; known {
			data.LoginError = msg
		}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("template", string(kind)),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.DebugContext(r.Context(), "failed to write rendered page", slog.Any("error", err))
	}
}
