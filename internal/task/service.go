package task

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/frahmantamala/task-management/internal"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/user"
)

// RepositoryAPI returns nil, nil for lookups that match nothing.
type RepositoryAPI interface {
	Create(ctx context.Context, t *taskDatamodel.Task) error
	GetByID(ctx context.Context, id string) (*taskDatamodel.Task, error)
	ListByAssigner(ctx context.Context, managerID string) ([]*taskDatamodel.Task, error)
	ListByAssignee(ctx context.Context, employeeID string) ([]*taskDatamodel.Task, error)
	CountByAssigner(ctx context.Context, managerID string, status string) (int64, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	AddComment(ctx context.Context, c *taskDatamodel.Comment) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// EmployeeDirectory resolves the employees a manager may assign work to.
type EmployeeDirectory interface {
	GetVisible(ctx context.Context, actor identity.Identity, id string) (*user.User, error)
	ListEmployees(ctx context.Context, actor identity.Identity) ([]*user.User, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		logger:    logger,
	}
}

// AssignableEmployees lists the employees actor may assign tasks to.
func (s *Service) AssignableEmployees(ctx context.Context, actor identity.Identity) ([]*user.User, error) {
	if !actor.Is(identity.RoleManager) {
		return nil, apperrors.ErrForbiddenRole
	}
	return s.employees.ListEmployees(ctx, actor)
}

func (s *Service) Assign(ctx context.Context, actor identity.Identity, dto AssignTaskDTO) (*Task, error) {
	if !actor.Is(identity.RoleManager) {
		return nil, apperrors.ErrForbiddenRole
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	priority, err := ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}
	deadline, err := ParseDeadline(dto.Deadline)
	if err != nil {
		return nil, err
	}

	assignee, err := s.employees.GetVisible(ctx, actor, dto.AssignedTo)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}
	if assignee.Role != identity.RoleEmployee {
		return nil, ErrAssigneeNotFound
	}

	t := &Task{
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    priority,
		Deadline:    deadline,
		Status:      StatusPending,
		AssignedBy:  actor.UserID,
		AssignedTo:  assignee.ID,
	}
	row := ToDataModel(t)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create task", "assigned_by", actor.UserID, "error", err)
		return nil, apperrors.NewInternalError("failed to create task", err)
	}

	created := FromDataModel(row)
	created.Assignee = &Person{ID: assignee.ID, Name: assignee.Name, Email: assignee.Email}
	s.logger.Info("task assigned",
		"task_id", created.ID,
		"assigned_by", actor.UserID,
		"assigned_to", assignee.ID)
	return created, nil
}

// List returns the tasks actor owns.
func (s *Service) List(ctx context.Context, actor identity.Identity) ([]*Task, error) {
	var (
		rows []*taskDatamodel.Task
		err  error
	)
	switch actor.Role {
	case identity.RoleManager:
		rows, err = s.repo.ListByAssigner(ctx, actor.UserID)
	case identity.RoleEmployee:
		rows, err = s.repo.ListByAssignee(ctx, actor.UserID)
	case identity.RoleAdmin:
		return nil, apperrors.ErrForbiddenRole
	default:
		return nil, apperrors.ErrForbiddenRole
	}
	if err != nil {
		s.logger.Error("failed to list tasks", "actor_id", actor.UserID, "error", err)
		return nil, apperrors.NewInternalError("failed to list tasks", err)
	}
	return FromDataModels(rows), nil
}

// Stats counts the tasks a manager assigned, by status.
func (s *Service) Stats(ctx context.Context, actor identity.Identity) (Stats, error) {
	var st Stats
	if !actor.Is(identity.RoleManager) {
		return st, apperrors.ErrForbiddenRole
	}

	counts := []struct {
		status string
		dst    *int64
	}{
		{"", &st.Total},
		{string(StatusPending), &st.Pending},
		{string(StatusInProgress), &st.InProgress},
		{string(StatusCompleted), &st.Completed},
	}
	for _, c := range counts {
		n, err := s.repo.CountByAssigner(ctx, actor.UserID, c.status)
		if err != nil {
			s.logger.Error("failed to count tasks", "actor_id", actor.UserID, "status", c.status, "error", err)
			return Stats{}, apperrors.NewInternalError("failed to count tasks", err)
		}
		*c.dst = n
	}
	return st, nil
}

// Get loads a task actor owns. Tasks owned by someone else are not found.
func (s *Service) Get(ctx context.Context, actor identity.Identity, id string) (*Task, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get task", "task_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get task", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	t := FromDataModel(row)
	if !Visible(actor, t) {
		s.logger.Warn("task outside actor scope",
			"actor_id", actor.UserID,
			"actor_role", actor.Role,
			"task_id", id)
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor identity.Identity, id string, status string) (*Task, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, t.ID, string(st)); err != nil {
		s.logger.Error("failed to update task status", "task_id", t.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to update task status", err)
	}

	s.logger.Info("task status updated",
		"task_id", t.ID,
		"from", t.Status,
		"to", st,
		"actor_id", actor.UserID)
	t.Status = st
	return t, nil
}

// AddComment appends a comment from the task's assigner or assignee.
func (s *Service) AddComment(ctx context.Context, actor identity.Identity, id string, dto CommentDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	t, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	c := &taskDatamodel.Comment{
		TaskID:   t.ID,
		AuthorID: actor.UserID,
		Text:     dto.Text,
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		s.logger.Error("failed to add comment", "task_id", t.ID, "error", err)
		return apperrors.NewInternalError("failed to add comment", err)
	}

	s.logger.Info("comment added", "task_id", t.ID, "comment_id", c.ID, "actor_id", actor.UserID)
	return nil
}

// DeleteByUser removes every task the user was assigned to or assigned,
// with their comments.
func (s *Service) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to delete tasks for user", "user_id", userID, "error", err)
		return 0, err
	}
	s.logger.Info("tasks deleted for user", "user_id", userID, "count", n)
	return n, nil
}
