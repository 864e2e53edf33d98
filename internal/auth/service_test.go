package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/core/datamodel/datamodeltest"
	"github.com/frahmantamala/task-management/internal/core/events"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/user"
	userPostgres "github.com/frahmantamala/task-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("AuthService", func() {
	var (
		ctx     context.Context
		users   *user.Service
		issuer  *auth.JWTTokenIssuer
		service *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := datamodeltest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		users = user.NewService(userPostgres.NewUserRepository(db), events.NewBus(logger), bcrypt.MinCost, logger)
		issuer = auth.NewJWTTokenIssuer("test-signing-secret", time.Hour)
		service = auth.NewService(users, issuer, logger)
	})

	Describe("Login", func() {
		var registered *user.User

		BeforeEach(func() {
			var err error
			registered, err = service.Signup(ctx, user.SignupDTO{Name: "Erin", Email: "erin@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())
		})

		Context("when credentials are valid", func() {
			It("should issue a token for the same user and role", func() {
				// Given
				dto := auth.LoginDTO{Email: "ERIN@example.com", Password: "correct_password"}

				// When
				session, err := service.Login(ctx, dto)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(session.Token).NotTo(BeEmpty())
				Expect(session.Identity.UserID).To(Equal(registered.ID))

				claims, err := issuer.Verify(session.Token)
				Expect(err).NotTo(HaveOccurred())
				Expect(claims.UserID).To(Equal(registered.ID))
				Expect(claims.Role).To(Equal(identity.RoleEmployee))
			})
		})

		Context("when credentials are invalid", func() {
			It("should fail for a wrong password", func() {
				session, err := service.Login(ctx, auth.LoginDTO{Email: "erin@example.com", Password: "wrong_password"})

				Expect(errors.Is(err, auth.ErrInvalidCredentials)).To(BeTrue())
				Expect(session).To(BeNil())
			})

			It("should fail the same way for an unknown email", func() {
				session, err := service.Login(ctx, auth.LoginDTO{Email: "nobody@example.com", Password: "correct_password"})

				Expect(errors.Is(err, auth.ErrInvalidCredentials)).To(BeTrue())
				Expect(session).To(BeNil())
			})

			It("should reject missing fields", func() {
				_, err := service.Login(ctx, auth.LoginDTO{})

				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, auth.ErrInvalidCredentials)).To(BeFalse())
			})
		})
	})

	Describe("Signup", func() {
		It("should never create an admin", func() {
			u, err := service.Signup(ctx, user.SignupDTO{Name: "M", Email: "m@example.com", Password: "secret1", Role: "admin"})

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(identity.RoleEmployee))

			session, err := service.Login(ctx, auth.LoginDTO{Email: "m@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Identity.Role).To(Equal(identity.RoleEmployee))
		})
	})

	Describe("Resolve", func() {
		It("should build the identity from the stored record", func() {
			// Given
			u, err := service.Signup(ctx, user.SignupDTO{Name: "Erin", Email: "erin@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			token, _, err := issuer.Issue(u.ID, identity.RoleManager)
			Expect(err).NotTo(HaveOccurred())

			// When
			id, err := service.Resolve(ctx, token)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(id.UserID).To(Equal(u.ID))
			Expect(id.Role).To(Equal(identity.RoleEmployee))
			Expect(id.Name).To(Equal("Erin"))
		})

		It("should reject a token for a deleted user", func() {
			token, _, err := issuer.Issue("ghost", identity.RoleEmployee)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Resolve(ctx, token)

			Expect(errors.Is(err, auth.ErrInvalidToken)).To(BeTrue())
		})
	})
})
