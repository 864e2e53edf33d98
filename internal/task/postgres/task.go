package postgres

import (
	"context"
	"errors"
	"fmt"

	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	"github.com/frahmantamala/task-management/internal/task"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.RepositoryAPI {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assigner").
		Preload("Assignee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author")
}

func (r *TaskRepository) Create(ctx context.Context, t *taskDatamodel.Task) error {
	if err := r.db.WithContext(ctx).Omit("Assigner", "Assignee", "Comments").Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*taskDatamodel.Task, error) {
	var t taskDatamodel.Task
	err := r.withRelations(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByAssigner(ctx context.Context, managerID string) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.withRelations(ctx).
		Where("assigned_by = ?", managerID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, employeeID string) ([]*taskDatamodel.Task, error) {
	var tasks []*taskDatamodel.Task
	err := r.withRelations(ctx).
		Where("assigned_to = ?", employeeID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// CountByAssigner counts every status when status is empty.
func (r *TaskRepository) CountByAssigner(ctx context.Context, managerID string, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&taskDatamodel.Task{}).Where("assigned_by = ?", managerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).
		Model(&taskDatamodel.Task{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update task %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update task %s status: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *TaskRepository) AddComment(ctx context.Context, c *taskDatamodel.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(c).Error; err != nil {
		return fmt.Errorf("add comment to task %s: %w", c.TaskID, err)
	}
	return nil
}

// DeleteByUser removes the tasks userID is assigned to or assigned, and their
// comments, in one transaction.
func (r *TaskRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&taskDatamodel.Task{}).
			Select("id").
			Where("assigned_to = ? OR assigned_by = ?", userID, userID)

		if err := tx.Where("task_id IN (?)", owned).Delete(&taskDatamodel.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		res := tx.Where("assigned_to = ? OR assigned_by = ?", userID, userID).Delete(&taskDatamodel.Task{})
		if res.Error != nil {
			return fmt.Errorf("delete tasks: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
