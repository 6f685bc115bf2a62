package auth

import (
	"context"
	"errors"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type RepositoryAPI interface {
	GetPasswordForEmail(email string) (passwordHash string, employeeID int64, err error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(employeeID int64, email string) (token string, err error)
	GenerateRefreshToken(employeeID int64, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrEmployeeInactive   = errors.New("employee is inactive")
)

type ctxKey string

const contextEmployeeKey ctxKey = "employee"

// EmployeeFromContext returns the acting employee resolved by AuthMiddleware.
func EmployeeFromContext(ctx context.Context) (*employee.Employee, bool) {
	emp, ok := ctx.Value(contextEmployeeKey).(*employee.Employee)
	return emp, ok
}

func ContextWithEmployee(ctx context.Context, emp *employee.Employee) context.Context {
	return context.WithValue(ctx, contextEmployeeKey, emp)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
