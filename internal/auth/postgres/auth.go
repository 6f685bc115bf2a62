package postgres

import (
	"database/sql"
	"errors"

	"github.com/TonyS-dev/nexus-hr/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var passwordHash string
	var employeeID int64
	query := `SELECT id, password_hash FROM employees WHERE email = ? AND status = 'active'`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&employeeID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, auth.ErrInvalidCredentials
		}
		return "", 0, err
	}
	return passwordHash, employeeID, nil
}
