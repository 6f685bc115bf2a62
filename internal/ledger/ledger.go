package ledger

import (
	"context"

	"github.com/TonyS-dev/nexus-hr/internal"
)

const (
	ReservationReserved  = "reserved"
	ReservationCommitted = "committed"
	ReservationReleased  = "released"
)

// Balance is the read view of a (employee, year) vacation ledger row.
type Balance struct {
	EmployeeID    int64 `json:"employee_id"`
	Year          int   `json:"year"`
	AvailableDays int   `json:"available_days"`
	DaysTaken     int   `json:"days_taken"`
	DaysReserved  int   `json:"days_reserved"`
}

func (b *Balance) Remaining() int {
	return b.AvailableDays - b.DaysTaken - b.DaysReserved
}

// Store guards the balance invariant: days_taken + days_reserved never
// exceeds available_days. Reserve is a single atomic check-and-increment;
// Commit and Release are idempotent per reservation id so a timed-out
// settlement is safe to retry.
type Store interface {
	EnsureBalance(ctx context.Context, employeeID int64, year, availableDays int) error
	Reserve(ctx context.Context, employeeID int64, year, days int) (string, error)
	Commit(ctx context.Context, reservationID string) error
	Release(ctx context.Context, reservationID string) error
	GetBalance(ctx context.Context, employeeID int64, year int) (*Balance, error)
}

var (
	ErrInsufficientBalance = internal.NewConflictError("insufficient vacation balance", internal.ErrCodeInsufficientBalance)
	ErrBalanceNotFound     = internal.NewNotFoundError("vacation balance not found", internal.ErrCodeBalanceNotFound)
	ErrReservationNotFound = internal.NewNotFoundError("reservation not found", internal.ErrCodeReservationNotFound)
	ErrReservationSettled  = internal.NewConflictError("reservation already settled the other way", internal.ErrCodeConcurrentModification)
)
