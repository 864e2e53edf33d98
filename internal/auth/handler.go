package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/user"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Signup(ctx context.Context, dto user.SignupDTO) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookies CookieConfig
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, cookies CookieConfig) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Cookies:     cookies,
	}
}

// LoginPage handles GET /user/login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "user/login", nil)
}

// Login handles POST /user/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Login(r.Context(), LoginFromForm(r))
	if err != nil {
		h.Fail(w, r, transport.LoginPath, err)
		return
	}

	SetSessionCookie(w, session.Token, h.Cookies)
	h.Succeed(w, r, session.Identity.Role.Home(), "Welcome back, "+session.Identity.Name)
}

// SignupPage handles GET /user/signup
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "user/signup", nil)
}

// Signup handles POST /user/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.Signup(r.Context(), user.SignupFromForm(r)); err != nil {
		h.Fail(w, r, "/user/signup", err)
		return
	}
	h.Succeed(w, r, transport.LoginPath, "Signup successful, please log in")
}

// Logout handles /user/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := internal.IdentityFromContext(r.Context()); ok {
		h.Logger.Info("user logged out", "user_id", id.UserID)
	}
	ClearSessionCookie(w, h.Cookies)
	h.Succeed(w, r, transport.LoginPath, "Logout successful")
}
