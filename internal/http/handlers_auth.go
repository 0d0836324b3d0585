package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/target/attractions-admin/internal/domain/auth"
	"github.com/target/attractions-admin/internal/domain/model"
	apperrors "github.com/target/attractions-admin/internal/errors"
	"github.com/target/attractions-admin/internal/service"
)

// wrongCredentials is the only failure message a login attempt ever shows.
const wrongCredentials = "Wrong credentials"

// AuthHandlers provides HTTP handlers for login, logout and session status.
type AuthHandlers struct {
	Sessions       Sessions
	LoginPath      string
	AfterLoginPath string
	Logger         *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domainauth.User `json:"user,omitempty"`
}

// APILogin handles script logins.
// POST /api/auth/login with {"email","password"}.
func (h *AuthHandlers) APILogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteServiceError(w, err)
		return
	}

	sess, err := h.Sessions.Login(r.Context(), ClientScopeFromContext(r.Context()), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrLoginFailed):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_failed",
			Err:     errors.New(wrongCredentials),
		})
		return
	case err != nil:
		h.logger().ErrorContext(r.Context(), "login could not be persisted", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "session_unavailable",
			Err:     errors.New("session storage is unavailable"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: sess.User})
}

// FormLogin handles the login page's form post.
// POST /login. Success goes to the after-login path, failure back to the form.
func (h *AuthHandlers) FormLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectLoginError(w, r, "")
		return
	}
	req := model.LoginRequest{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	if err := req.Validate(); err != nil {
		h.redirectLoginError(w, r, apperrors.GetField(err))
		return
	}

	if _, err := h.Sessions.Login(r.Context(), ClientScopeFromContext(r.Context()), req.Email, req.Password); err != nil {
		if !errors.Is(err, service.ErrLoginFailed) {
			h.logger().ErrorContext(r.Context(), "login could not be persisted", "error", err)
		}
		h.redirectLoginError(w, r, "")
		return
	}
	http.Redirect(w, r, h.AfterLoginPath, http.StatusSeeOther)
}

func (h *AuthHandlers) redirectLoginError(w http.ResponseWriter, r *http.Request, field string) {
	q := url.Values{}
	q.Set("error", "1")
	if field != "" {
		q.Set("field", field)
	}
	u := url.URL{Path: h.LoginPath, RawQuery: q.Encode()}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// Logout forgets the session for the caller's client scope.
// POST /api/auth/logout and POST /logout. Script callers get JSON, forms a redirect to /.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), ClientScopeFromContext(r.Context())); err != nil {
		// Memory is already cleared; the caller is signed out either way.
		h.logger().WarnContext(r.Context(), "logout failed to clear session store", "error", err)
	}

	if !IsBrowserRequest(r) || wantsJSON(r) {
		WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Status reports the caller's session.
// GET /api/auth/session.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Session(ClientScopeFromContext(r.Context()))
	if !ok {
		WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: true, User: sess.User})
}
