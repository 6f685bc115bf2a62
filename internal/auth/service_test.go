package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TonyS-dev/nexus-hr/internal/auth"
	"github.com/TonyS-dev/nexus-hr/internal/employee"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	passwordHash string
	employeeID   int64
	err          error
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, int64, error) {
	if m.err != nil {
		return "", 0, m.err
	}
	return m.passwordHash, m.employeeID, nil
}

// Mock directory for middleware tests
type mockDirectory struct {
	employees map[int64]*employee.Employee
}

func (m *mockDirectory) GetEmployee(_ context.Context, id int64) (*employee.Employee, error) {
	emp, exists := m.employees[id]
	if !exists {
		return nil, employee.ErrEmployeeNotFound
	}
	copied := *emp
	return &copied, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo     *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	const password = "correct horse battery staple"

	BeforeEach(func() {
		hash, err := auth.HashPassword(password, 10)
		Expect(err).NotTo(HaveOccurred())

		repo = &mockAuthRepository{passwordHash: hash, employeeID: 42}
		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-test-access-secret",
			"test-refresh-secret-test-refresh-secret",
			15*time.Minute,
			24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("returns a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "emery@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.EmployeeID).To(Equal(int64(42)))
			Expect(claims.Email).To(Equal("emery@example.com"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "emery@example.com", Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects unknown emails without leaking the reason", func() {
			repo.err = errors.New("sql: no rows in result set")

			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@example.com", Password: password})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("validates required fields", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: password})
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))

			_, err = service.Authenticate(auth.LoginDTO{Email: "emery@example.com", Password: ""})
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "emery@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.EmployeeID).To(Equal(int64(42)))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateAccessToken", func() {
		It("rejects tokens signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator(
				"another-secret-entirely-another-secret",
				"another-refresh-entirely-another-one",
				15*time.Minute,
				24*time.Hour,
			)
			token, err := otherGen.GenerateAccessToken(42, "emery@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(HaveOccurred())
		})

		It("rejects expired tokens", func() {
			// The constructor defaults non-positive TTLs, so build the
			// generator directly to mint an already-expired token.
			expiredGen := &auth.JWTTokenGenerator{
				AccessTokenSecret:  []byte("test-access-secret-test-access-secret"),
				RefreshTokenSecret: []byte("test-refresh-secret-test-refresh-secret"),
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    24 * time.Hour,
			}
			token, err := expiredGen.GenerateAccessToken(42, "emery@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrTokenExpired))
		})
	})

	Describe("AuthMiddleware", func() {
		var (
			handler *auth.Handler
			dir     *mockDirectory
			next    http.Handler
		)

		BeforeEach(func() {
			dir = &mockDirectory{employees: map[int64]*employee.Employee{
				42: {ID: 42, Email: "emery@example.com", Name: "Emery", AccessLevel: employee.AccessEmployee, Status: employee.StatusActive},
			}}
			handler = auth.NewHandler(service, dir)
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})

		authedRequest := func() *http.Request {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "emery@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/me", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
			return req
		}

		It("resolves an active employee and passes the request through", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, authedRequest())
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})

		It("rejects tokens for inactive employees", func() {
			dir.employees[42].Status = employee.StatusSuspended

			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, authedRequest())
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).To(ContainSubstring(auth.ErrEmployeeInactive.Error()))
		})

		It("rejects requests without a bearer token", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/me", nil)
			handler.AuthMiddleware(next).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
