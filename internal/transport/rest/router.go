package rest

import (
	"net/http"

	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/task"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/middleware"
	"github.com/frahmantamala/task-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Routes carries everything the router mounts. Metrics and MetricsHandler are
// optional; both nil disables the metrics endpoint.
type Routes struct {
	Gate           *auth.Gate
	Auth           *auth.Handler
	User           *user.Handler
	Task           *task.Handler
	Health         *HealthHandler
	Metrics        *middleware.Metrics
	MetricsPath    string
	MetricsHandler http.Handler
}

func RegisterAllRoutes(router *chi.Mux, routes Routes) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	if routes.Metrics != nil {
		router.Use(routes.Metrics.Middleware)
	}

	router.Get("/health", routes.Health.Health)
	router.Get("/ping", routes.Health.Ping)
	if routes.MetricsHandler != nil {
		router.Handle(routes.MetricsPath, routes.MetricsHandler)
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, transport.LoginPath, http.StatusSeeOther)
	})

	authHandler := routes.Auth
	router.Route("/user", func(r chi.Router) {
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.Get("/signup", authHandler.SignupPage)
		r.Post("/signup", authHandler.Signup)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
	})

	userHandler, taskHandler := routes.User, routes.Task
	id := userHandler.Identified

	router.Route("/admin", func(r chi.Router) {
		r.Use(routes.Gate.Authenticate)
		r.Use(auth.RequireRole(identity.RoleAdmin))

		r.Get("/", id(userHandler.AdminDashboard))
		r.Get("/managers", id(userHandler.AdminManagers))
		r.Get("/employees", id(userHandler.AdminEmployees))
		r.Post("/add-user", id(userHandler.AdminAddUser))
		r.Post("/edit-user/{id}", id(userHandler.AdminEditUser))
		r.Post("/delete-user/{id}", id(userHandler.AdminDeleteUser))
		r.Get("/profile", id(userHandler.Profile))
		r.Post("/profile", id(userHandler.UpdateProfile))
	})

	router.Route("/manager", func(r chi.Router) {
		r.Use(routes.Gate.Authenticate)
		r.Use(auth.RequireRole(identity.RoleManager))

		r.Get("/", id(taskHandler.ManagerDashboard))
		r.Get("/employees", id(userHandler.ManagerEmployees))
		r.Post("/add-employee", id(userHandler.ManagerAddEmployee))
		r.Post("/edit-employee/{id}", id(userHandler.ManagerEditEmployee))
		r.Post("/delete-employee/{id}", id(userHandler.ManagerDeleteEmployee))
		r.Get("/assign-task", id(taskHandler.AssignTaskPage))
		r.Post("/assign-task", id(taskHandler.AssignTask))
		r.Get("/tasks", id(taskHandler.ManagerTasks))
		r.Post("/tasks/{id}/status", id(taskHandler.UpdateStatus))
		r.Post("/tasks/{id}/comments", id(taskHandler.AddComment))
		r.Get("/profile", id(userHandler.Profile))
		r.Post("/profile", id(userHandler.UpdateProfile))
	})

	router.Route("/employee", func(r chi.Router) {
		r.Use(routes.Gate.Authenticate)
		r.Use(auth.RequireRole(identity.RoleEmployee))

		r.Get("/", id(taskHandler.EmployeeDashboard))
		r.Get("/my-tasks", id(taskHandler.EmployeeTasks))
		r.Post("/tasks/{id}/status", id(taskHandler.UpdateStatus))
		r.Post("/tasks/{id}/comments", id(taskHandler.AddComment))
		r.Get("/profile", id(userHandler.Profile))
		r.Post("/profile", id(userHandler.UpdateProfile))
	})
}
