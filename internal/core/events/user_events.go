package events

import (
	"time"

	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/google/uuid"
)

const EventTypeUserDeleted = "user.deleted"

// UserDeleted is published after a user row has been removed.
type UserDeleted struct {
	ID        string
	UserID    string
	Role      identity.Role
	DeletedBy string
	Timestamp time.Time
}

func NewUserDeleted(userID string, role identity.Role, deletedBy string) UserDeleted {
	return UserDeleted{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		DeletedBy: deletedBy,
		Timestamp: time.Now(),
	}
}

func (e UserDeleted) EventType() string     { return EventTypeUserDeleted }
func (e UserDeleted) EventID() string       { return e.ID }
func (e UserDeleted) OccurredAt() time.Time { return e.Timestamp }
