package user

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/validation"
)

// SignupDTO is the self-registration form. Role is read so the attempt can be
// logged, but the account is always created as an employee.
type SignupDTO struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	Role     string `form:"role" validate:"-"`
}

func SignupFromForm(r *http.Request) SignupDTO {
	return SignupDTO{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    NormalizeEmail(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
	}
}

func (d SignupDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// CreateUserDTO provisions an account from the admin or manager pages.
// Managers do not send a role.
type CreateUserDTO struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	Role     string `form:"role" validate:"omitempty,oneof=manager employee"`
}

func CreateUserFromForm(r *http.Request) CreateUserDTO {
	return CreateUserDTO{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    NormalizeEmail(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     strings.ToLower(strings.TrimSpace(r.PostFormValue("role"))),
	}
}

func (d CreateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO edits another account. An empty Role keeps the current one.
type UpdateUserDTO struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email,max=255"`
	Role  string `form:"role" validate:"omitempty,oneof=manager employee"`
}

func UpdateUserFromForm(r *http.Request) UpdateUserDTO {
	return UpdateUserDTO{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: NormalizeEmail(r.PostFormValue("email")),
		Role:  strings.ToLower(strings.TrimSpace(r.PostFormValue("role"))),
	}
}

func (d UpdateUserDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type ProfileDTO struct {
	Name       string `form:"name" validate:"required,max=100"`
	Email      string `form:"email" validate:"required,email,max=255"`
	Mobile     string `form:"mobile" validate:"omitempty,max=32"`
	Address    string `form:"address" validate:"omitempty,max=255"`
	Gender     string `form:"gender" validate:"omitempty,max=32"`
	Age        string `form:"age" validate:"omitempty,number"`
	BloodGroup string `form:"bloodGroup" validate:"omitempty,max=8"`
}

func ProfileFromForm(r *http.Request) ProfileDTO {
	return ProfileDTO{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Email:      NormalizeEmail(r.PostFormValue("email")),
		Mobile:     strings.TrimSpace(r.PostFormValue("mobile")),
		Address:    strings.TrimSpace(r.PostFormValue("address")),
		Gender:     strings.TrimSpace(r.PostFormValue("gender")),
		Age:        strings.TrimSpace(r.PostFormValue("age")),
		BloodGroup: strings.TrimSpace(r.PostFormValue("bloodGroup")),
	}
}

func (d ProfileDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	if _, err := d.ParsedAge(); err != nil {
		return err
	}
	return nil
}

// ParsedAge returns nil for an empty field.
func (d ProfileDTO) ParsedAge() (*int, error) {
	if d.Age == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(d.Age)
	if err != nil || age < 0 || age > 150 {
		return nil, apperrors.NewValidationError("age must be between 0 and 150", apperrors.ErrCodeValidationFailed)
	}
	return &age, nil
}
