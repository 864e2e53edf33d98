package task

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/frahmantamala/task-management/internal/user"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AssignableEmployees(ctx context.Context, actor identity.Identity) ([]*user.User, error)
	Assign(ctx context.Context, actor identity.Identity, dto AssignTaskDTO) (*Task, error)
	List(ctx context.Context, actor identity.Identity) ([]*Task, error)
	Stats(ctx context.Context, actor identity.Identity) (Stats, error)
	UpdateStatus(ctx context.Context, actor identity.Identity, id string, status string) (*Task, error)
	AddComment(ctx context.Context, actor identity.Identity, id string, dto CommentDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ManagerDashboard handles GET /manager
func (h *Handler) ManagerDashboard(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	employees, err := h.Service.AssignableEmployees(r.Context(), id)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	stats, err := h.Service.Stats(r.Context(), id)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Render(w, r, "manager/dashboard", view.Data{
		"Employees":     employees,
		"EmployeeCount": len(employees),
		"Stats":         stats,
	})
}

// AssignTaskPage handles GET /manager/assign-task
func (h *Handler) AssignTaskPage(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	employees, err := h.Service.AssignableEmployees(r.Context(), id)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	if len(employees) == 0 {
		h.Fail(w, r, "/manager/employees", ErrNoEmployees)
		return
	}

	h.Render(w, r, "manager/assign_task", view.Data{
		"Employees":  employees,
		"Priorities": Priorities,
	})
}

// AssignTask handles POST /manager/assign-task
func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	if _, err := h.Service.Assign(r.Context(), id, AssignTaskFromForm(r)); err != nil {
		h.Fail(w, r, "/manager/assign-task", err)
		return
	}
	h.Succeed(w, r, "/manager/tasks", "Task assigned successfully!")
}

// ManagerTasks handles GET /manager/tasks
func (h *Handler) ManagerTasks(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	h.renderTasks(w, r, id)
}

// EmployeeDashboard handles GET /employee
func (h *Handler) EmployeeDashboard(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	tasks, err := h.Service.List(r.Context(), id)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, "employee/dashboard", view.Data{"Tasks": tasks})
}

// EmployeeTasks handles GET /employee/my-tasks
func (h *Handler) EmployeeTasks(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	h.renderTasks(w, r, id)
}

// UpdateStatus handles POST /{manager,employee}/tasks/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	back := tasksPath(id.Role)
	if _, err := h.Service.UpdateStatus(r.Context(), id, chi.URLParam(r, "id"), r.PostFormValue("status")); err != nil {
		h.Fail(w, r, back, err)
		return
	}
	h.Succeed(w, r, back, "Task status updated successfully")
}

// AddComment handles POST /{manager,employee}/tasks/{id}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	back := tasksPath(id.Role)
	if err := h.Service.AddComment(r.Context(), id, chi.URLParam(r, "id"), CommentFromForm(r)); err != nil {
		h.Fail(w, r, back, err)
		return
	}
	h.Succeed(w, r, back, "Comment added!")
}

func (h *Handler) renderTasks(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	tasks, err := h.Service.List(r.Context(), id)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	h.Render(w, r, "shared/tasks", view.Data{
		"Tasks":     tasks,
		"Statuses":  Statuses,
		"BasePath":  id.Role.Home(),
		"IsManager": id.Is(identity.RoleManager),
		"Now":       time.Now(),
	})
}

func tasksPath(role identity.Role) string {
	switch role {
	case identity.RoleManager:
		return "/manager/tasks"
	case identity.RoleEmployee:
		return "/employee/my-tasks"
	case identity.RoleAdmin:
		return role.Home()
	}
	return role.Home()
}
