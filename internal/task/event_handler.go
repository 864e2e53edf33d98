package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/task-management/internal/core/events"
)

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// HandleUserDeleted removes the deleted user's tasks.
func (h *EventHandler) HandleUserDeleted(ctx context.Context, event events.Event) error {
	deleted, ok := event.(events.UserDeleted)
	if !ok {
		h.logger.Error("invalid event type for user deleted handler", "event_type", event.EventType())
		return fmt.Errorf("expected UserDeleted, got %T", event)
	}

	h.logger.Info("handling user deleted event",
		"user_id", deleted.UserID,
		"role", deleted.Role,
		"event_id", deleted.EventID())

	if _, err := h.service.DeleteByUser(ctx, deleted.UserID); err != nil {
		return fmt.Errorf("delete tasks for user %s: %w", deleted.UserID, err)
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeUserDeleted, h.HandleUserDeleted)

	h.logger.Info("task event handlers registered",
		"handlers", []string{events.EventTypeUserDeleted})
}
