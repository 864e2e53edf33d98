package task

import (
	"strings"
	"time"

	apperrors "github.com/frahmantamala/task-management/internal"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/core/identity"
)

const DeadlineLayout = "2006-01-02"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority defaults an empty value to Medium.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	switch p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", apperrors.NewValidationError("priority must be Low, Medium or High", apperrors.ErrCodeValidationFailed)
}

// ParseDeadline returns nil for an empty value.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DeadlineLayout, s)
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	return &t, nil
}

type Person struct {
	ID    string
	Name  string
	Email string
}

type Comment struct {
	ID        string
	AuthorID  string
	Author    *Person
	Text      string
	CreatedAt time.Time
}

type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Deadline    *time.Time
	Status      Status
	AssignedBy  string
	AssignedTo  string
	Assigner    *Person
	Assignee    *Person
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Stats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
}

var (
	ErrNotFound         = apperrors.NewNotFoundError("Task not found", apperrors.ErrCodeTaskNotFound)
	ErrInvalidStatus    = apperrors.NewValidationError("status must be Pending, In Progress or Completed", apperrors.ErrCodeInvalidStatus)
	ErrInvalidDeadline  = apperrors.NewValidationError("deadline must be a date (YYYY-MM-DD)", apperrors.ErrCodeInvalidDeadline)
	ErrAssigneeNotFound = apperrors.NewValidationError("Selected employee is not available", apperrors.ErrCodeUserNotFound)
	ErrNoEmployees      = apperrors.NewNotFoundError("No employees available to assign task", apperrors.ErrCodeUserNotFound)
)

// Visible reports whether actor owns t: managers own what they assigned,
// employees own what was assigned to them.
func Visible(actor identity.Identity, t *Task) bool {
	if t == nil {
		return false
	}
	switch actor.Role {
	case identity.RoleManager:
		return t.AssignedBy == actor.UserID
	case identity.RoleEmployee:
		return t.AssignedTo == actor.UserID
	case identity.RoleAdmin:
		return false
	}
	return false
}

func (t *Task) Overdue(now time.Time) bool {
	return t.Deadline != nil && t.Status != StatusCompleted && now.After(t.Deadline.Add(24*time.Hour))
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	return &taskDatamodel.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Deadline:    t.Deadline,
		Status:      string(t.Status),
		AssignedBy:  t.AssignedBy,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	out := &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    Priority(t.Priority),
		Deadline:    t.Deadline,
		Status:      Status(t.Status),
		AssignedBy:  t.AssignedBy,
		AssignedTo:  t.AssignedTo,
		Assigner:    personFrom(t.Assigner),
		Assignee:    personFrom(t.Assignee),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, c := range t.Comments {
		out.Comments = append(out.Comments, Comment{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Author:    personFrom(c.Author),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func FromDataModels(rows []*taskDatamodel.Task) []*Task {
	tasks := make([]*Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, FromDataModel(row))
	}
	return tasks
}

func personFrom(u *userDatamodel.User) *Person {
	if u == nil {
		return nil
	}
	return &Person{ID: u.ID, Name: u.Name, Email: u.Email}
}
