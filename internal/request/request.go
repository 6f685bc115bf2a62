package request

import (
	"context"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
	requestDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/request"
)

const (
	TypeVacation    = "vacation"
	TypeLeave       = "leave"
	TypeCertificate = "certificate"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)

type Request struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	Type          string     `json:"type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	RequestedDays int        `json:"requested_days"`
	Status        string     `json:"status"`
	Comments      string     `json:"comments,omitempty"`
	ApproverID    *int64     `json:"approver_id,omitempty"`
	ReservationID *string    `json:"-"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// RequiresBalance reports whether this request type consumes vacation days.
// Certificates never touch the ledger.
func (r *Request) RequiresBalance() bool {
	return r.Type == TypeVacation || r.Type == TypeLeave
}

func ValidType(t string) bool {
	switch t {
	case TypeVacation, TypeLeave, TypeCertificate:
		return true
	}
	return false
}

type ApprovalDecision struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	ApproverID int64     `json:"approver_id"`
	Outcome    string    `json:"outcome"`
	Comments   string    `json:"comments,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

// Transition describes a status change applied with optimistic concurrency.
// The write succeeds only if the row still carries the version the caller
// read; otherwise the repository reports ErrConcurrentModification and no
// state changes.
type Transition struct {
	Status     string
	ApproverID *int64
	DecidedAt  time.Time
	Decision   *ApprovalDecision

	// Settle, when set, runs inside the same transaction as the status
	// change and the decision row. An error rolls the whole transition
	// back, so the request can never end up decided with its reservation
	// left dangling.
	Settle func(ctx context.Context) error
}

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]*Request, error)
	ListPending(ctx context.Context, limit, offset int) ([]*Request, error)
	Transition(ctx context.Context, id, fromVersion int64, t Transition) error
	GetDecision(ctx context.Context, requestID int64) (*ApprovalDecision, error)
}

var (
	ErrRequestNotFound        = internal.NewNotFoundError("Request not found", internal.ErrCodeRequestNotFound)
	ErrConcurrentModification = internal.NewConflictError("request was modified concurrently, retry", internal.ErrCodeConcurrentModification)
	ErrDecisionNotFound       = internal.NewNotFoundError("approval decision not found", internal.ErrCodeRequestNotFound)
)

func ToDataModel(r *Request) *requestDatamodel.Request {
	return &requestDatamodel.Request{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Type:          r.Type,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		RequestedDays: r.RequestedDays,
		Status:        r.Status,
		Comments:      r.Comments,
		ApproverID:    r.ApproverID,
		ReservationID: r.ReservationID,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		DecidedAt:     r.DecidedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func FromDataModel(r *requestDatamodel.Request) *Request {
	return &Request{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Type:          r.Type,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		RequestedDays: r.RequestedDays,
		Status:        r.Status,
		Comments:      r.Comments,
		ApproverID:    r.ApproverID,
		ReservationID: r.ReservationID,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		DecidedAt:     r.DecidedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*requestDatamodel.Request) []*Request {
	result := make([]*Request, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}
