package balance

import "time"

// VacationBalance holds the per-(employee, year) day ledger.
// Invariant: DaysTaken + DaysReserved <= AvailableDays.
type VacationBalance struct {
	ID            int64     `gorm:"primaryKey"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;uniqueIndex:idx_balance_employee_year"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:idx_balance_employee_year"`
	AvailableDays int       `gorm:"column:available_days;not null"`
	DaysTaken     int       `gorm:"column:days_taken;not null;default:0"`
	DaysReserved  int       `gorm:"column:days_reserved;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (VacationBalance) TableName() string {
	return "vacation_balances"
}

// Reservation tracks days held against a balance until the owning request
// is decided. Status transitions reserved -> committed | released exactly
// once; repeating the same settlement is a no-op.
type Reservation struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	EmployeeID int64     `gorm:"column:employee_id;not null;index"`
	Year       int       `gorm:"column:year;not null"`
	Days       int       `gorm:"column:days;not null"`
	Status     string    `gorm:"column:status;not null;default:reserved"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}
