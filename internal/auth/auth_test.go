package auth_test

import (
	"errors"
	"time"

	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenIssuer", func() {
	var issuer *auth.JWTTokenIssuer

	BeforeEach(func() {
		issuer = auth.NewJWTTokenIssuer("test-signing-secret", 24*time.Hour)
	})

	It("should round trip user id and role", func() {
		// Given
		for _, role := range identity.Roles {
			// When
			token, expiresAt, err := issuer.Issue("user-1", role)
			Expect(err).NotTo(HaveOccurred())
			claims, err := issuer.Verify(token)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-1"))
			Expect(claims.Role).To(Equal(role))
			Expect(claims.Subject).To(Equal("user-1"))
			Expect(expiresAt).To(BeTemporally("~", time.Now().Add(24*time.Hour), time.Minute))
		}
	})

	It("should reject a token signed with another key", func() {
		other := auth.NewJWTTokenIssuer("a-different-secret", time.Hour)
		token, _, err := other.Issue("user-1", identity.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(token)

		Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())
	})

	It("should reject an unsigned token", func() {
		claims := auth.Claims{
			UserID: "user-1",
			Role:   identity.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(token)

		Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())
	})

	It("should reject an expired token with a valid signature", func() {
		expired := auth.NewJWTTokenIssuer("test-signing-secret", -time.Minute)
		token, _, err := expired.Issue("user-1", identity.RoleEmployee)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(token)

		Expect(errors.Is(err, auth.ErrTokenExpired)).To(BeTrue())
	})

	It("should reject garbage and empty tokens", func() {
		_, err := issuer.Verify("not.a.token")
		Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())

		_, err = issuer.Verify("")
		Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())
	})

	It("should reject a token naming an unknown role", func() {
		token, _, err := issuer.Issue("user-1", identity.Role("superuser"))
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(token)

		Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())
	})
})
