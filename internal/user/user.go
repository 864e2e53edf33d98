package user

import (
	"strings"
	"time"

	apperrors "github.com/frahmantamala/task-management/internal"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         identity.Role
	Mobile       string
	Address      string
	Gender       string
	Age          *int
	BloodGroup   string
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrNotFound    = apperrors.NewNotFoundError("User not found", apperrors.ErrCodeUserNotFound)
	ErrEmailTaken  = apperrors.NewConflictError("Email is already registered", apperrors.ErrCodeEmailTaken)
	ErrInvalidRole = apperrors.NewValidationError("Role is not allowed here", apperrors.ErrCodeInvalidRole)
)

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetPassword(plain string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

func (u *User) Identity() identity.Identity {
	return identity.Identity{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}

func (u *User) CreatedByID() string {
	if u.CreatedBy == nil {
		return ""
	}
	return *u.CreatedBy
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.String(),
		Mobile:       u.Mobile,
		Address:      u.Address,
		Gender:       u.Gender,
		Age:          u.Age,
		BloodGroup:   u.BloodGroup,
		CreatedBy:    u.CreatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         identity.Role(u.Role),
		Mobile:       u.Mobile,
		Address:      u.Address,
		Gender:       u.Gender,
		Age:          u.Age,
		BloodGroup:   u.BloodGroup,
		CreatedBy:    u.CreatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModels(rows []*userDatamodel.User) []*User {
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users
}
