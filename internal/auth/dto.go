package auth

import (
	"net/http"

	"github.com/frahmantamala/task-management/internal/core/common/validation"
	"github.com/frahmantamala/task-management/internal/user"
)

type LoginDTO struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func LoginFromForm(r *http.Request) LoginDTO {
	return LoginDTO{
		Email:    user.NormalizeEmail(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func (d LoginDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}
