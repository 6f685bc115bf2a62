package ledger

import (
	"context"
	"log/slog"
)

// Service fronts the store with lazy balance provisioning: the first
// reservation of a year creates the (employee, year) row with the
// configured annual allowance.
type Service struct {
	store             Store
	defaultAnnualDays int
	logger            *slog.Logger
}

func NewService(store Store, defaultAnnualDays int, logger *slog.Logger) *Service {
	return &Service{
		store:             store,
		defaultAnnualDays: defaultAnnualDays,
		logger:            logger,
	}
}

func (s *Service) Reserve(ctx context.Context, employeeID int64, year, days int) (string, error) {
	if err := s.store.EnsureBalance(ctx, employeeID, year, s.defaultAnnualDays); err != nil {
		s.logger.Error("failed to provision balance", "error", err, "employee_id", employeeID, "year", year)
		return "", err
	}

	reservationID, err := s.store.Reserve(ctx, employeeID, year, days)
	if err != nil {
		if err == ErrInsufficientBalance {
			s.logger.Info("reservation refused, insufficient balance",
				"employee_id", employeeID, "year", year, "days", days)
		} else {
			s.logger.Error("failed to reserve days", "error", err, "employee_id", employeeID, "year", year)
		}
		return "", err
	}

	s.logger.Info("days reserved",
		"reservation_id", reservationID,
		"employee_id", employeeID,
		"year", year,
		"days", days)
	return reservationID, nil
}

func (s *Service) Commit(ctx context.Context, reservationID string) error {
	if err := s.store.Commit(ctx, reservationID); err != nil {
		s.logger.Error("failed to commit reservation", "error", err, "reservation_id", reservationID)
		return err
	}
	s.logger.Info("reservation committed", "reservation_id", reservationID)
	return nil
}

func (s *Service) Release(ctx context.Context, reservationID string) error {
	if err := s.store.Release(ctx, reservationID); err != nil {
		s.logger.Error("failed to release reservation", "error", err, "reservation_id", reservationID)
		return err
	}
	s.logger.Info("reservation released", "reservation_id", reservationID)
	return nil
}

// GetBalance returns the ledger row, or the unprovisioned default when no
// request has touched that year yet. It never writes.
func (s *Service) GetBalance(ctx context.Context, employeeID int64, year int) (*Balance, error) {
	bal, err := s.store.GetBalance(ctx, employeeID, year)
	if err == ErrBalanceNotFound {
		return &Balance{
			EmployeeID:    employeeID,
			Year:          year,
			AvailableDays: s.defaultAnnualDays,
		}, nil
	}
	if err != nil {
		s.logger.Error("failed to get balance", "error", err, "employee_id", employeeID, "year", year)
		return nil, err
	}
	return bal, nil
}
