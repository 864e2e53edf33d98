package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/pkg/logger"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (identity.Identity, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// Gate is the authentication checkpoint for every protected route.
type Gate struct {
	resolver IdentityResolver
	cookies  CookieConfig
	logger   *slog.Logger
}

func NewGate(resolver IdentityResolver, cookies CookieConfig, logger *slog.Logger) *Gate {
	return &Gate{
		resolver: resolver,
		cookies:  cookies,
		logger:   logger,
	}
}

// Authenticate resolves the session cookie into an identity. Requests without
// a usable session are redirected to the login page and never reach next.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, transport.LoginPath, http.StatusSeeOther)
			return
		}

		id, err := g.resolver.Resolve(r.Context(), cookie.Value)
		if err != nil {
			logger.From(r.Context()).Warn("session rejected", "path", r.URL.Path, "error", err)
			ClearSessionCookie(w, g.cookies)
			http.Redirect(w, r, transport.LoginPath, http.StatusSeeOther)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), id)
		ctx = logger.With(ctx, "user_id", id.UserID, "role", id.Role.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
