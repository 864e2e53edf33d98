package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "token"

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(userID string, role identity.Role) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

// Claims is the session token payload.
type Claims struct {
	UserID string        `json:"id"`
	Role   identity.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

var (
	ErrInvalidCredentials = apperrors.NewUnauthorizedError("Invalid email or password", apperrors.ErrCodeInvalidCredentials)
	ErrInvalidToken       = apperrors.NewUnauthorizedError("Invalid session", apperrors.ErrCodeInvalidToken)
	ErrTokenExpired       = apperrors.NewUnauthorizedError("Session expired", apperrors.ErrCodeTokenExpired)
)

func NewJWTTokenIssuer(secret string, ttl time.Duration) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (j *JWTTokenIssuer) TTL() time.Duration {
	return j.ttl
}

func (j *JWTTokenIssuer) Issue(userID string, role identity.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

func (j *JWTTokenIssuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired.WithCause(err)
		}
		return nil, ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
