package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/user"
)

// UserDirectory is the slice of the user service that authentication needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Register(ctx context.Context, dto user.SignupDTO) (*user.User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  identity.Identity
}

type Service struct {
	users  UserDirectory
	issuer TokenIssuer
	logger *slog.Logger
}

func NewService(users UserDirectory, issuer TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// Login checks the credentials and issues a session token. Unknown emails and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	dto.Email = user.NormalizeEmail(dto.Email)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Info("login failed", "email", dto.Email, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.CheckPassword(dto.Password) {
		s.logger.Info("login failed", "email", dto.Email, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		s.logger.Error("failed to issue token", "user_id", u.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  u.Identity(),
	}, nil
}

func (s *Service) Signup(ctx context.Context, dto user.SignupDTO) (*user.User, error) {
	return s.users.Register(ctx, dto)
}

// Resolve verifies token and loads the current record of the user it names.
// The identity reflects the stored record, not the token claims.
func (s *Service) Resolve(ctx context.Context, token string) (identity.Identity, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return identity.Identity{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return identity.Identity{}, ErrInvalidToken
		}
		return identity.Identity{}, err
	}

	if u.Role != claims.Role {
		s.logger.Info("role changed since token was issued",
			"user_id", u.ID,
			"token_role", claims.Role,
			"current_role", u.Role)
	}

	return u.Identity(), nil
}
