package httpx

import (
	"net/http"

	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/routes"
)

type tableRouterOptions struct {
	Table    *routes.Table
	Sessions Sessions
	Pages    *PageRenderer
	Metrics  statsd.Sink
}

// tableRouter serves the page routes declared in the route table. Each entry's
// handler, guard included, is built once up front.
type tableRouter struct {
	table    *routes.Table
	handlers map[string]http.Handler
}

func newTableRouter(opts tableRouterOptions) *tableRouter {
	t := opts.Table
	handlers := make(map[string]http.Handler, len(t.Routes))
	for _, rt := range t.Routes {
		var h http.Handler
		if rt.Redirect != "" {
			h = http.RedirectHandler(rt.Redirect, http.StatusSeeOther)
		} else {
			h = pageHandler(opts.Pages, rt.Serve)
		}

		if rt.Serve == routes.ServeLogin {
			h = LoginRoute(LoginRouteOptions{Sessions: opts.Sessions, AfterLoginPath: t.AfterLoginPath})(h)
		}
		if rt.Guard != nil {
			h = Guard(GuardOptions{
				Sessions:     opts.Sessions,
				Role:         rt.Guard.Role,
				RedirectPath: t.GuardRedirect(rt),
				Name:         rt.Path,
				Metrics:      opts.Metrics,
			})(h)
		}
		handlers[rt.Path] = h
	}
	return &tableRouter{table: t, handlers: handlers}
}

func pageHandler(pages *PageRenderer, kind routes.ServeKind) http.Handler {
	status := http.StatusOK
	if kind == routes.ServeNotFound {
		status = http.StatusNotFound
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, r, kind, status)
	})
}

func (tr *tableRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	rt, ok := tr.table.Match(r.URL.Path)
	if !ok {
		http.Redirect(w, r, tr.table.NotFoundPath, http.StatusSeeOther)
		return
	}
	tr.handlers[rt.Path].ServeHTTP(w, r)
}
