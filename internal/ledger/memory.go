package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type balanceKey struct {
	employeeID int64
	year       int
}

type memReservation struct {
	employeeID int64
	year       int
	days       int
	status     string
}

// MemoryStore is a mutex-guarded Store used by tests and local development.
// It honors the same atomicity contract as the Postgres store: Reserve is a
// single check-and-increment under the lock.
type MemoryStore struct {
	mu           sync.Mutex
	balances     map[balanceKey]*Balance
	reservations map[string]*memReservation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances:     make(map[balanceKey]*Balance),
		reservations: make(map[string]*memReservation),
	}
}

func (m *MemoryStore) EnsureBalance(_ context.Context, employeeID int64, year, availableDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := balanceKey{employeeID, year}
	if _, exists := m.balances[key]; !exists {
		m.balances[key] = &Balance{
			EmployeeID:    employeeID,
			Year:          year,
			AvailableDays: availableDays,
		}
	}
	return nil
}

func (m *MemoryStore) Reserve(_ context.Context, employeeID int64, year, days int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bal, exists := m.balances[balanceKey{employeeID, year}]
	if !exists {
		return "", ErrBalanceNotFound
	}
	if bal.AvailableDays-bal.DaysTaken-bal.DaysReserved < days {
		return "", ErrInsufficientBalance
	}

	bal.DaysReserved += days
	id := uuid.New().String()
	m.reservations[id] = &memReservation{
		employeeID: employeeID,
		year:       year,
		days:       days,
		status:     ReservationReserved,
	}
	return id, nil
}

func (m *MemoryStore) Commit(_ context.Context, reservationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, exists := m.reservations[reservationID]
	if !exists {
		return ErrReservationNotFound
	}
	switch res.status {
	case ReservationCommitted:
		return nil
	case ReservationReleased:
		return ErrReservationSettled
	}

	bal := m.balances[balanceKey{res.employeeID, res.year}]
	bal.DaysReserved -= res.days
	bal.DaysTaken += res.days
	res.status = ReservationCommitted
	return nil
}

func (m *MemoryStore) Release(_ context.Context, reservationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, exists := m.reservations[reservationID]
	if !exists {
		return ErrReservationNotFound
	}
	switch res.status {
	case ReservationReleased:
		return nil
	case ReservationCommitted:
		return ErrReservationSettled
	}

	bal := m.balances[balanceKey{res.employeeID, res.year}]
	bal.DaysReserved -= res.days
	res.status = ReservationReleased
	return nil
}

func (m *MemoryStore) GetBalance(_ context.Context, employeeID int64, year int) (*Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bal, exists := m.balances[balanceKey{employeeID, year}]
	if !exists {
		return nil, ErrBalanceNotFound
	}
	copied := *bal
	return &copied, nil
}
