package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// ReadinessCheck probes one dependency, typically the session store.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type readinessHandler struct {
	checks  []ReadinessCheck
	timeout time.Duration
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ServeHTTP answers 200 when every check passes and 503 otherwise.
func (h readinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	resp := readinessResponse{Status: "ok"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks[c.Name] = err.Error()
			continue
		}
		resp.Checks[c.Name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, resp)
}
