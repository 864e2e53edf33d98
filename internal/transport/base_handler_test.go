package transport_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/flash"
	"github.com/frahmantamala/task-management/internal/transport/view"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BaseHandler", func() {
	var (
		base    *transport.BaseHandler
		flashes *flash.Store
		manager identity.Identity
	)

	BeforeEach(func() {
		views, err := view.New()
		Expect(err).NotTo(HaveOccurred())
		flashes = flash.NewStore("0123456789abcdef0123456789abcdef", false)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base = transport.NewBaseHandler(logger, views, flashes)
		manager = identity.Identity{UserID: "m-1", Name: "Alice", Role: identity.RoleManager}
	})

	asManager := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithIdentity(req.Context(), manager))
	}

	popFrom := func(rec *httptest.ResponseRecorder) flash.Messages {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		return flashes.Pop(httptest.NewRecorder(), req)
	}

	Describe("Identified", func() {
		It("should pass the identity to the handler", func() {
			var got identity.Identity
			h := base.Identified(func(w http.ResponseWriter, r *http.Request, id identity.Identity) {
				got = id
			})

			h.ServeHTTP(httptest.NewRecorder(), asManager(httptest.NewRequest(http.MethodGet, "/manager", nil)))

			Expect(got).To(Equal(manager))
		})

		It("should send anonymous requests to login", func() {
			called := false
			h := base.Identified(func(http.ResponseWriter, *http.Request, identity.Identity) { called = true })
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manager", nil))

			Expect(called).To(BeFalse())
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal(transport.LoginPath))
		})
	})

	Describe("Fail", func() {
		It("should flash application errors and go back", func() {
			rec := httptest.NewRecorder()
			notFound := internal.NewNotFoundError("Task not found", internal.ErrCodeTaskNotFound)

			base.Fail(rec, asManager(httptest.NewRequest(http.MethodPost, "/manager/tasks/x/status", nil)), "/manager/tasks", notFound)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/manager/tasks"))
			Expect(popFrom(rec).Error).To(Equal([]string{"Task not found"}))
		})

		It("should hide unexpected errors behind a generic message on the home page", func() {
			rec := httptest.NewRecorder()

			base.Fail(rec, asManager(httptest.NewRequest(http.MethodPost, "/manager/assign-task", nil)), "/manager/assign-task", errors.New("pq: connection reset"))

			Expect(rec.Header().Get("Location")).To(Equal("/manager"))
			messages := popFrom(rec)
			Expect(messages.Error).To(HaveLen(1))
			Expect(messages.Error[0]).NotTo(ContainSubstring("pq"))
		})
	})

	Describe("Render", func() {
		It("should include the pending flash once", func() {
			seed := httptest.NewRecorder()
			base.Succeed(seed, httptest.NewRequest(http.MethodPost, "/user/signup", nil), transport.LoginPath, "Signup successful, please log in")

			req := httptest.NewRequest(http.MethodGet, transport.LoginPath, nil)
			for _, c := range seed.Result().Cookies() {
				req.AddCookie(c)
			}
			rec := httptest.NewRecorder()
			base.Render(rec, req, "user/login", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
			Expect(rec.Body.String()).To(ContainSubstring("Signup successful, please log in"))
		})
	})
})
