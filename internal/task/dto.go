package task

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/task-management/internal/core/common/validation"
)

type AssignTaskDTO struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
	Priority    string `form:"priority" validate:"omitempty,oneof=Low Medium High"`
	Deadline    string `form:"deadline" validate:"omitempty,datetime=2006-01-02"`
	AssignedTo  string `form:"assignedTo" validate:"required"`
}

func AssignTaskFromForm(r *http.Request) AssignTaskDTO {
	return AssignTaskDTO{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Priority:    strings.TrimSpace(r.PostFormValue("priority")),
		Deadline:    strings.TrimSpace(r.PostFormValue("deadline")),
		AssignedTo:  strings.TrimSpace(r.PostFormValue("assignedTo")),
	}
}

func (d AssignTaskDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type CommentDTO struct {
	Text string `form:"comment" validate:"required,max=1000"`
}

func CommentFromForm(r *http.Request) CommentDTO {
	return CommentDTO{Text: strings.TrimSpace(r.PostFormValue("comment"))}
}

func (d CommentDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}
