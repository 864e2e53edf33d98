package user

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id string) (*User, error)
	CountByRole(ctx context.Context, role identity.Role) (int64, error)
	ListManagers(ctx context.Context, actor identity.Identity) ([]*User, error)
	ListEmployees(ctx context.Context, actor identity.Identity) ([]*User, error)
	Create(ctx context.Context, actor identity.Identity, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, actor identity.Identity, id string, dto UpdateUserDTO) (*User, error)
	Delete(ctx context.Context, actor identity.Identity, id string) error
	UpdateProfile(ctx context.Context, actor identity.Identity, dto ProfileDTO) (*User, error)
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

// AdminDashboard handles GET /admin
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	managers, err := h.Service.CountByRole(r.Context(), identity.RoleManager)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	employees, err := h.Service.CountByRole(r.Context(), identity.RoleEmployee)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Render(w, r, "admin/dashboard", view.Data{
		"ManagerCount":  managers,
		"EmployeeCount": employees,
	})
}

// AdminManagers handles GET /admin/managers
func (h *Handler) AdminManagers(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	managers, err := h.Service.ListManagers(r.Context(), id)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	h.Render(w, r, "admin/users", view.Data{
		"Title": "Managers",
		"Role":  identity.RoleManager,
		"Users": managers,
		"Roles": AssignableRoles(id),
	})
}

// AdminEmployees handles GET /admin/employees
func (h *Handler) AdminEmployees(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	employees, err := h.Service.ListEmployees(r.Context(), id)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	h.Render(w, r, "admin/users", view.Data{
		"Title": "Employees",
		"Role":  identity.RoleEmployee,
		"Users": employees,
		"Roles": AssignableRoles(id),
	})
}

// AdminAddUser handles POST /admin/add-user
func (h *Handler) AdminAddUser(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	u, err := h.Service.Create(r.Context(), id, CreateUserFromForm(r))
	if err != nil {
		h.Fail(w, r, "/admin", err)
		return
	}
	h.Succeed(w, r, adminListPath(u.Role), fmt.Sprintf("User (%s) added successfully", u.Role))
}

// AdminEditUser handles POST /admin/edit-user/{id}
func (h *Handler) AdminEditUser(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	u, err := h.Service.Update(r.Context(), id, chi.URLParam(r, "id"), UpdateUserFromForm(r))
	if err != nil {
		h.Fail(w, r, "/admin", err)
		return
	}
	h.Succeed(w, r, adminListPath(u.Role), fmt.Sprintf("User (%s) updated successfully", u.Role))
}

// AdminDeleteUser handles POST /admin/delete-user/{id}
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	target, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, "/admin", err)
		return
	}
	if err := h.Service.Delete(r.Context(), id, target.ID); err != nil {
		h.Fail(w, r, "/admin", err)
		return
	}
	h.Succeed(w, r, adminListPath(target.Role), fmt.Sprintf("User (%s) deleted successfully", target.Role))
}

// ManagerEmployees handles GET /manager/employees
func (h *Handler) ManagerEmployees(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	employees, err := h.Service.ListEmployees(r.Context(), id)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	h.Render(w, r, "manager/employees", view.Data{"Employees": employees})
}

// ManagerAddEmployee handles POST /manager/add-employee
func (h *Handler) ManagerAddEmployee(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	dto := CreateUserFromForm(r)
	dto.Role = ""
	if _, err := h.Service.Create(r.Context(), id, dto); err != nil {
		h.Fail(w, r, "/manager/employees", err)
		return
	}
	h.Succeed(w, r, "/manager/employees", "Employee added successfully")
}

// ManagerEditEmployee handles POST /manager/edit-employee/{id}
func (h *Handler) ManagerEditEmployee(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	dto := UpdateUserFromForm(r)
	dto.Role = ""
	if _, err := h.Service.Update(r.Context(), id, chi.URLParam(r, "id"), dto); err != nil {
		h.Fail(w, r, "/manager/employees", err)
		return
	}
	h.Succeed(w, r, "/manager/employees", "Employee updated successfully")
}

// ManagerDeleteEmployee handles POST /manager/delete-employee/{id}
func (h *Handler) ManagerDeleteEmployee(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	if err := h.Service.Delete(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		h.Fail(w, r, "/manager/employees", err)
		return
	}
	h.Succeed(w, r, "/manager/employees", "Employee deleted successfully")
}

// Profile handles GET /{role}/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	u, err := h.Service.GetByID(r.Context(), id.UserID)
	if err != nil {
		h.Fail(w, r, id.Role.Home(), err)
		return
	}
	h.Render(w, r, "shared/profile", view.Data{
		"User":   u,
		"Action": profilePath(id.Role),
		// admins have no age or blood group fields
		"Extended": !id.Is(identity.RoleAdmin),
	})
}

// UpdateProfile handles POST /{role}/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, id identity.Identity) {
	if _, err := h.Service.UpdateProfile(r.Context(), id, ProfileFromForm(r)); err != nil {
		h.Fail(w, r, profilePath(id.Role), err)
		return
	}
	h.Succeed(w, r, profilePath(id.Role), "Profile updated successfully")
}

func adminListPath(role identity.Role) string {
	switch role {
	case identity.RoleManager:
		return "/admin/managers"
	case identity.RoleEmployee:
		return "/admin/employees"
	case identity.RoleAdmin:
		return "/admin"
	}
	return "/admin"
}

func profilePath(role identity.Role) string {
	return role.Home() + "/profile"
}
