// Package routes loads and matches the dashboard's declarative route table.
package routes

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// ServeKind names the page a route renders.
type ServeKind string

const (
	ServeApp      ServeKind = "app"
	ServeLogin    ServeKind = "login"
	ServeNotFound ServeKind = "not_found"
)

// Valid reports whether k is a known page.
func (k ServeKind) Valid() bool {
	switch k {
	case ServeApp, ServeLogin, ServeNotFound:
		return true
	default:
		return false
	}
}

// Guard protects a route. An empty Role admits any authenticated user.
type Guard struct {
	Role domainauth.Role `yaml:"role"`
	// RedirectPath overrides the table's login path for denied requests.
	RedirectPath string `yaml:"redirect_path,omitempty"`
}

// Route is one entry of the table. Exactly one of Serve and Redirect is set.
type Route struct {
	Path     string    `yaml:"path"`
	Guard    *Guard    `yaml:"guard,omitempty"`
	Serve    ServeKind `yaml:"serve,omitempty"`
	Redirect string    `yaml:"redirect,omitempty"`
}

// Subtree reports whether the route matches every path below it.
func (r Route) Subtree() bool {
	return r.Path != "/" && strings.HasSuffix(r.Path, "/")
}

// Table is the full route configuration.
type Table struct {
	LoginPath      string  `yaml:"login_path"`
	AfterLoginPath string  `yaml:"after_login_path"`
	NotFoundPath   string  `yaml:"not_found_path"`
	Routes         []Route `yaml:"routes"`
}

// Default returns the embedded route table.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// Load reads a route table from path, or the embedded default when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML route table. Unknown keys are rejected.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode route table: %w", err)
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) applyDefaults() {
	if t.LoginPath == "" {
		t.LoginPath = "/login"
	}
	if t.AfterLoginPath == "" {
		t.AfterLoginPath = "/dashboard/app"
	}
	if t.NotFoundPath == "" {
		t.NotFoundPath = "/404"
	}
}

// Validate checks every route and the table-level paths, reporting all problems at once.
func (t *Table) Validate() error {
	var errs []error
	for name, p := range map[string]string{
		"login_path":       t.LoginPath,
		"after_login_path": t.AfterLoginPath,
		"not_found_path":   t.NotFoundPath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("%s %q must start with /", name, p))
		}
	}
	if len(t.Routes) == 0 {
		errs = append(errs, errors.New("route table has no routes"))
	}

	seen := make(map[string]struct{}, len(t.Routes))
	for i, r := range t.Routes {
		if err := r.validate(); err != nil {
			errs = append(errs, fmt.Errorf("routes[%d] %q: %w", i, r.Path, err))
		}
		if _, dup := seen[r.Path]; dup {
			errs = append(errs, fmt.Errorf("routes[%d]: duplicate path %q", i, r.Path))
		}
		seen[r.Path] = struct{}{}
	}

	if _, ok := t.Match(t.NotFoundPath); !ok && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("not_found_path %q does not match any route", t.NotFoundPath))
	}
	return errors.Join(errs...)
}

func (r Route) validate() error {
	if !strings.HasPrefix(r.Path, "/") {
		return errors.New("path must start with /")
	}
	hasServe, hasRedirect := r.Serve != "", r.Redirect != ""
	switch {
	case hasServe == hasRedirect:
		return errors.New("exactly one of serve and redirect is required")
	case hasServe && !r.Serve.Valid():
		return fmt.Errorf("unknown serve %q", r.Serve)
	case hasRedirect && !strings.HasPrefix(r.Redirect, "/"):
		return fmt.Errorf("redirect %q must start with /", r.Redirect)
	case hasRedirect && r.Redirect == r.Path:
		return errors.New("route redirects to itself")
	}
	if r.Guard != nil {
		if r.Guard.Role != "" {
			if _, ok := domainauth.ParseRole(string(r.Guard.Role)); !ok {
				return fmt.Errorf("unknown role %q", r.Guard.Role)
			}
		}
		if r.Guard.RedirectPath != "" && !strings.HasPrefix(r.Guard.RedirectPath, "/") {
			return fmt.Errorf("guard redirect_path %q must start with /", r.Guard.RedirectPath)
		}
	}
	return nil
}

// Match returns the route for path. Exact routes win over subtree routes, and
// among subtree routes the longest prefix wins.
func (t *Table) Match(path string) (Route, bool) {
	var (
		best    Route
		bestLen = -1
	)
	for _, r := range t.Routes {
		switch {
		case r.Path == path && !r.Subtree():
			return r, true
		case r.Subtree() && strings.HasPrefix(path, r.Path) && len(r.Path) > bestLen:
			best, bestLen = r, len(r.Path)
		}
	}
	return best, bestLen >= 0
}

// GuardRedirect returns where a request denied by r's guard is sent.
func (t *Table) GuardRedirect(r Route) string {
	if r.Guard != nil && r.Guard.RedirectPath != "" {
		return r.Guard.RedirectPath
	}
	return t.LoginPath
}
