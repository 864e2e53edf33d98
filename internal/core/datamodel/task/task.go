package task

import (
	"time"

	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	Priority    string     `gorm:"column:priority;type:varchar(16);default:Medium"`
	Deadline    *time.Time `gorm:"column:deadline"`
	Status      string     `gorm:"column:status;type:varchar(32);default:Pending;index"`
	AssignedBy  string     `gorm:"column:assigned_by;type:varchar(36);index;not null"`
	AssignedTo  string     `gorm:"column:assigned_to;type:varchar(36);index;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Assigner *userDatamodel.User `gorm:"foreignKey:AssignedBy"`
	Assignee *userDatamodel.User `gorm:"foreignKey:AssignedTo"`
	Comments []Comment           `gorm:"foreignKey:TaskID"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	TaskID    string    `gorm:"column:task_id;type:varchar(36);index;not null"`
	AuthorID  string    `gorm:"column:author_id;type:varchar(36);not null"`
	Text      string    `gorm:"column:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Author *userDatamodel.User `gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string {
	return "task_comments"
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
