package rest_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/datamodel/datamodeltest"
	"github.com/frahmantamala/task-management/internal/core/events"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/task"
	taskPostgres "github.com/frahmantamala/task-management/internal/task/postgres"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/flash"
	"github.com/frahmantamala/task-management/internal/transport/rest"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/frahmantamala/task-management/internal/user"
	userPostgres "github.com/frahmantamala/task-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Router", func() {
	var (
		ctx       context.Context
		router    *chi.Mux
		users     *user.Service
		tasks     *task.Service
		admin     *user.User
		manager   *user.User
		employee  *user.User
		adminID   identity.Identity
		managerID identity.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := datamodeltest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		views, err := view.New()
		Expect(err).NotTo(HaveOccurred())
		base := transport.NewBaseHandler(logger, views, flash.NewStore("0123456789abcdef0123456789abcdef", false))

		bus := events.NewBus(logger)
		users = user.NewService(userPostgres.NewUserRepository(db), bus, bcrypt.MinCost, logger)
		tasks = task.NewService(taskPostgres.NewTaskRepository(db), users, logger)
		task.NewEventHandler(tasks, logger).RegisterEventHandlers(bus)

		issuer := auth.NewJWTTokenIssuer("router-test-secret", time.Hour)
		authService := auth.NewService(users, issuer, logger)
		cookies := auth.CookieConfig{MaxAge: time.Hour}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Routes{
			Gate:   auth.NewGate(authService, cookies, logger),
			Auth:   auth.NewHandler(base, authService, cookies),
			User:   user.NewHandler(base, users),
			Task:   task.NewHandler(base, tasks),
			Health: rest.NewHealthHandler(base, sqlDB, "sqlite"),
		})

		admin, err = users.ProvisionAdmin(ctx, "Root", "root@example.com", "admin-pass")
		Expect(err).NotTo(HaveOccurred())
		adminID = admin.Identity()
		manager, err = users.Create(ctx, adminID, user.CreateUserDTO{Name: "Alice", Email: "alice@example.com", Password: "manager-pass", Role: "manager"})
		Expect(err).NotTo(HaveOccurred())
		managerID = manager.Identity()
		employee, err = users.Create(ctx, managerID, user.CreateUserDTO{Name: "Eve", Email: "eve@example.com", Password: "employee-pass"})
		Expect(err).NotTo(HaveOccurred())
	})

	serve := func(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		var req *http.Request
		if form != nil {
			req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email, password string) *http.Cookie {
		rec := serve(http.MethodPost, "/user/login", url.Values{"email": {email}, "password": {password}})
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.CookieName {
				return c
			}
		}
		Fail("no session cookie for " + email)
		return nil
	}

	It("should send the root to the login page", func() {
		rec := serve(http.MethodGet, "/", nil)

		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/user/login"))
	})

	It("should render the login page", func() {
		rec := serve(http.MethodGet, "/user/login", nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`action="/user/login"`))
	})

	It("should answer health checks", func() {
		Expect(serve(http.MethodGet, "/health", nil).Code).To(Equal(http.StatusOK))
		Expect(serve(http.MethodGet, "/ping", nil).Body.String()).To(ContainSubstring("OK"))
	})

	It("should redirect each role to its home after login", func() {
		for email, home := range map[string]string{
			"root@example.com":  "/admin",
			"alice@example.com": "/manager",
			"eve@example.com":   "/employee",
		} {
			password := map[string]string{
				"root@example.com":  "admin-pass",
				"alice@example.com": "manager-pass",
				"eve@example.com":   "employee-pass",
			}[email]

			rec := serve(http.MethodPost, "/user/login", url.Values{"email": {email}, "password": {password}})

			Expect(rec.Header().Get("Location")).To(Equal(home), email)
		}
	})

	It("should not set a cookie for a wrong password", func() {
		rec := serve(http.MethodPost, "/user/login", url.Values{"email": {"eve@example.com"}, "password": {"nope"}})

		Expect(rec.Header().Get("Location")).To(Equal("/user/login"))
		for _, c := range rec.Result().Cookies() {
			Expect(c.Name).NotTo(Equal(auth.CookieName))
		}
	})

	It("should require a session for protected pages", func() {
		for _, path := range []string{"/admin", "/manager/tasks", "/employee/my-tasks"} {
			rec := serve(http.MethodGet, path, nil)

			Expect(rec.Code).To(Equal(http.StatusSeeOther), path)
			Expect(rec.Header().Get("Location")).To(Equal("/user/login"), path)
		}
	})

	It("should forbid other roles' areas", func() {
		token := login("eve@example.com", "employee-pass")

		Expect(serve(http.MethodGet, "/admin", nil, token).Code).To(Equal(http.StatusForbidden))
		Expect(serve(http.MethodGet, "/manager", nil, token).Code).To(Equal(http.StatusForbidden))
		Expect(serve(http.MethodGet, "/employee", nil, token).Code).To(Equal(http.StatusOK))
	})

	It("should keep a forbidden request from mutating anything", func() {
		token := login("eve@example.com", "employee-pass")

		rec := serve(http.MethodPost, "/admin/delete-user/"+manager.ID, nil, token)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		_, err := users.GetByID(ctx, manager.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should let a manager assign a task that the employee then sees", func() {
		managerToken := login("alice@example.com", "manager-pass")

		rec := serve(http.MethodPost, "/manager/assign-task", url.Values{
			"title":      {"Quarterly report"},
			"priority":   {"High"},
			"deadline":   {"2030-01-31"},
			"assignedTo": {employee.ID},
		}, managerToken)
		Expect(rec.Header().Get("Location")).To(Equal("/manager/tasks"))

		employeeToken := login("eve@example.com", "employee-pass")
		page := serve(http.MethodGet, "/employee/my-tasks", nil, employeeToken)

		Expect(page.Code).To(Equal(http.StatusOK))
		Expect(page.Body.String()).To(ContainSubstring("Quarterly report"))
		Expect(page.Body.String()).To(ContainSubstring("Alice"))
	})

	It("should cascade an employee deletion to their tasks", func() {
		_, err := tasks.Assign(ctx, managerID, task.AssignTaskDTO{Title: "Doomed", AssignedTo: employee.ID})
		Expect(err).NotTo(HaveOccurred())
		managerToken := login("alice@example.com", "manager-pass")

		rec := serve(http.MethodPost, "/manager/delete-employee/"+employee.ID, nil, managerToken)

		Expect(rec.Header().Get("Location")).To(Equal("/manager/employees"))
		list, err := tasks.List(ctx, managerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})

	It("should log out by clearing the session cookie", func() {
		token := login("eve@example.com", "employee-pass")

		rec := serve(http.MethodPost, "/user/logout", nil, token)

		Expect(rec.Header().Get("Location")).To(Equal("/user/login"))
		Expect(rec.Header().Values("Set-Cookie")).To(ContainElement(ContainSubstring(auth.CookieName + "=;")))
	})
})
