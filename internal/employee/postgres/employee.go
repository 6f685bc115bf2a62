package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/jmoiron/sqlx"
)

// EmployeeDirectory implements employee.Directory over the employees table.
type EmployeeDirectory struct {
	db *sqlx.DB
}

func NewEmployeeDirectory(db *sqlx.DB) employee.Directory {
	return &EmployeeDirectory{db: db}
}

type employeeRow struct {
	ID          int64          `db:"id"`
	Email       string         `db:"email"`
	Name        string         `db:"name"`
	AccessLevel string         `db:"access_level"`
	ManagerID   sql.NullInt64  `db:"manager_id"`
	Status      string         `db:"status"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (d *EmployeeDirectory) GetEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	var row employeeRow
	query := `SELECT id, email, name, access_level, manager_id, status, created_at, updated_at
	          FROM employees WHERE id = $1`
	if err := d.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp := &employee.Employee{
		ID:          row.ID,
		Email:       row.Email,
		Name:        row.Name,
		AccessLevel: row.AccessLevel,
		Status:      row.Status,
	}
	if row.ManagerID.Valid {
		managerID := row.ManagerID.Int64
		emp.ManagerID = &managerID
	}
	if row.CreatedAt.Valid {
		emp.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		emp.UpdatedAt = row.UpdatedAt.Time
	}
	return emp, nil
}
