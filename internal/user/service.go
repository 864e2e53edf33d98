package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/frahmantamala/task-management/internal"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/core/events"
	"github.com/frahmantamala/task-management/internal/core/identity"
)

// RepositoryAPI returns nil, nil for lookups that match nothing.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	ListByRole(ctx context.Context, role string) ([]*userDatamodel.User, error)
	ListEmployeesVisibleTo(ctx context.Context, managerID string) ([]*userDatamodel.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       RepositoryAPI
	publisher  EventPublisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a self-service account. The requested role is ignored.
func (s *Service) Register(ctx context.Context, dto SignupDTO) (*User, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Role != "" && dto.Role != identity.RoleEmployee.String() {
		s.logger.Warn("signup requested a privileged role, creating employee",
			"email", dto.Email,
			"requested_role", dto.Role)
	}

	u := &User{
		Name:  dto.Name,
		Email: dto.Email,
		Role:  identity.RoleEmployee,
	}
	if err := s.create(ctx, u, dto.Password); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// ProvisionAdmin creates an admin account. Only the seed command calls it.
func (s *Service) ProvisionAdmin(ctx context.Context, name, email, password string) (*User, error) {
	dto := SignupDTO{Name: name, Email: NormalizeEmail(email), Password: password}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u := &User{Name: dto.Name, Email: dto.Email, Role: identity.RoleAdmin}
	if err := s.create(ctx, u, dto.Password); err != nil {
		return nil, err
	}

	s.logger.Info("admin provisioned", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	row, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		s.logger.Error("failed to get user by email", "error", err)
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return FromDataModel(row), nil
}

// GetVisible loads a user the actor is allowed to manage. Users outside the
// actor's scope are reported as not found.
func (s *Service) GetVisible(ctx context.Context, actor identity.Identity, id string) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(actor, u) {
		s.logger.Warn("user outside actor scope",
			"actor_id", actor.UserID,
			"actor_role", actor.Role,
			"target_id", id)
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	n, err := s.repo.CountByRole(ctx, role.String())
	if err != nil {
		s.logger.Error("failed to count users", "role", role, "error", err)
		return 0, apperrors.NewInternalError("failed to count users", err)
	}
	return n, nil
}

func (s *Service) ListManagers(ctx context.Context, actor identity.Identity) ([]*User, error) {
	if !actor.Is(identity.RoleAdmin) {
		return nil, apperrors.ErrForbiddenRole
	}
	rows, err := s.repo.ListByRole(ctx, identity.RoleManager.String())
	if err != nil {
		s.logger.Error("failed to list managers", "error", err)
		return nil, apperrors.NewInternalError("failed to list managers", err)
	}
	return FromDataModels(rows), nil
}

// ListEmployees returns the employees visible to actor.
func (s *Service) ListEmployees(ctx context.Context, actor identity.Identity) ([]*User, error) {
	var (
		rows []*userDatamodel.User
		err  error
	)
	switch actor.Role {
	case identity.RoleAdmin:
		rows, err = s.repo.ListByRole(ctx, identity.RoleEmployee.String())
	case identity.RoleManager:
		rows, err = s.repo.ListEmployeesVisibleTo(ctx, actor.UserID)
	case identity.RoleEmployee:
		return nil, apperrors.ErrForbiddenRole
	default:
		return nil, apperrors.ErrForbiddenRole
	}
	if err != nil {
		s.logger.Error("failed to list employees", "actor_id", actor.UserID, "error", err)
		return nil, apperrors.NewInternalError("failed to list employees", err)
	}
	return FromDataModels(rows), nil
}

// Create provisions an account on behalf of actor. Managers always create
// employees they own; admins pick manager or employee.
func (s *Service) Create(ctx context.Context, actor identity.Identity, dto CreateUserDTO) (*User, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.resolveRole(actor, dto.Role)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:  dto.Name,
		Email: dto.Email,
		Role:  role,
	}
	if actor.Is(identity.RoleManager) {
		createdBy := actor.UserID
		u.CreatedBy = &createdBy
	}

	if err := s.create(ctx, u, dto.Password); err != nil {
		return nil, err
	}

	s.logger.Info("user provisioned",
		"user_id", u.ID,
		"role", u.Role,
		"actor_id", actor.UserID)
	return u, nil
}

func (s *Service) Update(ctx context.Context, actor identity.Identity, id string, dto UpdateUserDTO) (*User, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if dto.Role != "" {
		role, err := s.resolveRole(actor, dto.Role)
		if err != nil {
			return nil, err
		}
		u.Role = role
	}

	if err := s.ensureEmailFree(ctx, dto.Email, u.ID); err != nil {
		return nil, err
	}

	u.Name = dto.Name
	u.Email = dto.Email
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID, "actor_id", actor.UserID)
	return u, nil
}

// Delete removes a user in actor's scope and publishes UserDeleted so the
// user's tasks are removed.
func (s *Service) Delete(ctx context.Context, actor identity.Identity, id string) error {
	u, err := s.GetVisible(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		s.logger.Error("failed to delete user", "user_id", u.ID, "error", err)
		return apperrors.NewInternalError("failed to delete user", err)
	}

	if err := s.publisher.Publish(ctx, events.NewUserDeleted(u.ID, u.Role, actor.UserID)); err != nil {
		s.logger.Error("user deleted but cascade failed", "user_id", u.ID, "error", err)
		return apperrors.NewInternalError("user deleted but related tasks could not be removed", err)
	}

	s.logger.Info("user deleted", "user_id", u.ID, "role", u.Role, "actor_id", actor.UserID)
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor identity.Identity, dto ProfileDTO) (*User, error) {
	dto.Email = NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	age, err := dto.ParsedAge()
	if err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, dto.Email, u.ID); err != nil {
		return nil, err
	}

	u.Name = dto.Name
	u.Email = dto.Email
	u.Mobile = dto.Mobile
	u.Address = dto.Address
	u.Gender = dto.Gender
	u.Age = age
	u.BloodGroup = dto.BloodGroup
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", u.ID)
	return u, nil
}

func (s *Service) resolveRole(actor identity.Identity, requested string) (identity.Role, error) {
	if requested == "" {
		allowed := AssignableRoles(actor)
		if len(allowed) != 1 {
			return "", ErrInvalidRole
		}
		return allowed[0], nil
	}
	role, err := identity.ParseRole(requested)
	if err != nil || !canAssign(actor, role) {
		return "", ErrInvalidRole
	}
	return role, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return apperrors.NewInternalError("failed to check email", err)
	}
	if existing != nil && existing.ID != ownerID {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) create(ctx context.Context, u *User, password string) error {
	if err := s.ensureEmailFree(ctx, u.Email, ""); err != nil {
		return err
	}
	if err := u.SetPassword(password, s.bcryptCost); err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return apperrors.NewInternalError("failed to hash password", err)
	}

	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return ErrEmailTaken
		}
		s.logger.Error("failed to create user", "email", u.Email, "error", err)
		return apperrors.NewInternalError("failed to create user", err)
	}

	created := FromDataModel(row)
	*u = *created
	return nil
}

func (s *Service) save(ctx context.Context, u *User) error {
	row := ToDataModel(u)
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return ErrEmailTaken
		}
		s.logger.Error("failed to update user", "user_id", u.ID, "error", err)
		return apperrors.NewInternalError(fmt.Sprintf("failed to update user %s", u.ID), err)
	}
	u.UpdatedAt = row.UpdatedAt
	return nil
}
