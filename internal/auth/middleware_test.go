package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeResolver struct {
	identities map[string]identity.Identity
	err        error
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (identity.Identity, error) {
	if f.err != nil {
		return identity.Identity{}, f.err
	}
	id, ok := f.identities[token]
	if !ok {
		return identity.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

var _ = Describe("Gates", func() {
	var (
		resolver *fakeResolver
		gate     *auth.Gate
		called   bool
		seen     identity.Identity
		next     http.Handler
	)

	manager := identity.Identity{UserID: "m-1", Name: "Alice", Role: identity.RoleManager}

	BeforeEach(func() {
		resolver = &fakeResolver{identities: map[string]identity.Identity{"good": manager}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gate = auth.NewGate(resolver, auth.CookieConfig{MaxAge: time.Hour}, logger)
		called = false
		seen = identity.Identity{}
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			seen, _ = internal.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	request := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/manager/delete-employee/e-1", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	Describe("Authenticate", func() {
		It("should redirect anonymous requests to login", func() {
			rec := request(gate.Authenticate(next), "")

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/user/login"))
			Expect(called).To(BeFalse())
		})

		It("should redirect and clear the cookie for a bad token", func() {
			rec := request(gate.Authenticate(next), "forged")

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/user/login"))
			Expect(rec.Header().Get("Set-Cookie")).To(ContainSubstring(auth.CookieName + "="))
			Expect(rec.Header().Get("Set-Cookie")).To(ContainSubstring("Max-Age=0"))
			Expect(called).To(BeFalse())
		})

		It("should redirect when the store fails", func() {
			resolver.err = errors.New("connection refused")

			rec := request(gate.Authenticate(next), "good")

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(called).To(BeFalse())
		})

		It("should attach the identity for a valid session", func() {
			rec := request(gate.Authenticate(next), "good")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(called).To(BeTrue())
			Expect(seen).To(Equal(manager))
		})
	})

	Describe("RequireRole", func() {
		It("should allow a permitted role", func() {
			h := gate.Authenticate(auth.RequireRole(identity.RoleManager)(next))

			rec := request(h, "good")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(called).To(BeTrue())
		})

		It("should forbid other roles without calling the handler", func() {
			h := gate.Authenticate(auth.RequireRole(identity.RoleAdmin)(next))

			rec := request(h, "good")

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(called).To(BeFalse())
		})

		It("should forbid requests with no identity", func() {
			rec := request(auth.RequireRole(identity.RoleEmployee)(next), "")

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(called).To(BeFalse())
		})

		It("should redirect anonymous requests before checking the role", func() {
			h := gate.Authenticate(auth.RequireRole(identity.RoleAdmin)(next))

			rec := request(h, "")

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(called).To(BeFalse())
		})
	})

	Describe("session cookie", func() {
		It("should be http only and scoped to the site", func() {
			rec := httptest.NewRecorder()

			auth.SetSessionCookie(rec, "abc", auth.CookieConfig{Secure: true, MaxAge: 24 * time.Hour})

			cookie := rec.Result().Cookies()[0]
			Expect(cookie.Name).To(Equal("token"))
			Expect(cookie.Value).To(Equal("abc"))
			Expect(cookie.HttpOnly).To(BeTrue())
			Expect(cookie.Secure).To(BeTrue())
			Expect(cookie.Path).To(Equal("/"))
			Expect(cookie.MaxAge).To(Equal(86400))
		})
	})
})
