package postgres

import (
	"context"
	"errors"

	"github.com/TonyS-dev/nexus-hr/internal/core/database"
	balanceDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/balance"
	"github.com/TonyS-dev/nexus-hr/internal/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerStore implements ledger.Store using GORM. Reserve is one conditional
// UPDATE so two racing reservations can never both pass the availability
// check; Commit/Release compare-and-swap the reservation status so repeats
// are no-ops.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) ledger.Store {
	return &LedgerStore{db: db}
}

// conn joins a caller transaction carried in the context, so settlement can
// run atomically with a request transition.
func (s *LedgerStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

func (s *LedgerStore) EnsureBalance(ctx context.Context, employeeID int64, year, availableDays int) error {
	row := balanceDatamodel.VacationBalance{
		EmployeeID:    employeeID,
		Year:          year,
		AvailableDays: availableDays,
	}
	return s.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (s *LedgerStore) Reserve(ctx context.Context, employeeID int64, year, days int) (string, error) {
	reservationID := uuid.New().String()

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&balanceDatamodel.VacationBalance{}).
			Where("employee_id = ? AND year = ? AND available_days - days_taken - days_reserved >= ?",
				employeeID, year, days).
			UpdateColumn("days_reserved", gorm.Expr("days_reserved + ?", days))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&balanceDatamodel.VacationBalance{}).
				Where("employee_id = ? AND year = ?", employeeID, year).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ledger.ErrBalanceNotFound
			}
			return ledger.ErrInsufficientBalance
		}

		reservation := balanceDatamodel.Reservation{
			ID:         reservationID,
			EmployeeID: employeeID,
			Year:       year,
			Days:       days,
			Status:     ledger.ReservationReserved,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return "", err
	}
	return reservationID, nil
}

func (s *LedgerStore) Commit(ctx context.Context, reservationID string) error {
	return s.settle(ctx, reservationID, ledger.ReservationCommitted)
}

func (s *LedgerStore) Release(ctx context.Context, reservationID string) error {
	return s.settle(ctx, reservationID, ledger.ReservationReleased)
}

func (s *LedgerStore) settle(ctx context.Context, reservationID, target string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation balanceDatamodel.Reservation
		if err := tx.Where("id = ?", reservationID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrReservationNotFound
			}
			return err
		}

		if reservation.Status == target {
			return nil
		}
		if reservation.Status != ledger.ReservationReserved {
			return ledger.ErrReservationSettled
		}

		// CAS on status guards against a concurrent settlement attempt.
		res := tx.Model(&balanceDatamodel.Reservation{}).
			Where("id = ? AND status = ?", reservationID, ledger.ReservationReserved).
			UpdateColumn("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current balanceDatamodel.Reservation
			if err := tx.Where("id = ?", reservationID).First(&current).Error; err != nil {
				return err
			}
			if current.Status == target {
				return nil
			}
			return ledger.ErrReservationSettled
		}

		updates := map[string]interface{}{
			"days_reserved": gorm.Expr("days_reserved - ?", reservation.Days),
		}
		if target == ledger.ReservationCommitted {
			updates["days_taken"] = gorm.Expr("days_taken + ?", reservation.Days)
		}
		return tx.Model(&balanceDatamodel.VacationBalance{}).
			Where("employee_id = ? AND year = ?", reservation.EmployeeID, reservation.Year).
			Updates(updates).Error
	})
}

func (s *LedgerStore) GetBalance(ctx context.Context, employeeID int64, year int) (*ledger.Balance, error) {
	var row balanceDatamodel.VacationBalance
	err := s.conn(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrBalanceNotFound
		}
		return nil, err
	}
	return &ledger.Balance{
		EmployeeID:    row.EmployeeID,
		Year:          row.Year,
		AvailableDays: row.AvailableDays,
		DaysTaken:     row.DaysTaken,
		DaysReserved:  row.DaysReserved,
	}, nil
}
