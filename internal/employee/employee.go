package employee

import (
	"context"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
)

// Access levels, ordered from least to most privileged.
const (
	AccessEmployee = "employee"
	AccessManager  = "manager"
	AccessHR       = "hr"
	AccessAdmin    = "admin"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

type Employee struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AccessLevel string    `json:"access_level"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

// CanApprove reports whether the employee's access level permits deciding
// requests at all; whether a specific request may be decided is the
// approval policy's call.
func (e *Employee) CanApprove() bool {
	switch e.AccessLevel {
	case AccessManager, AccessHR, AccessAdmin:
		return true
	}
	return false
}

func (e *Employee) IsHROrAdmin() bool {
	return e.AccessLevel == AccessHR || e.AccessLevel == AccessAdmin
}

// Directory is the read-only view of the HR employee records the workflow
// consumes. The workflow never mutates employees.
type Directory interface {
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
}

var ErrEmployeeNotFound = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)
