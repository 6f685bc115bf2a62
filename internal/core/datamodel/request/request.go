package request

import "time"

type Request struct {
	ID            int64      `gorm:"primaryKey"`
	EmployeeID    int64      `gorm:"column:employee_id;not null;index"`
	Type          string     `gorm:"column:request_type;not null"`
	StartDate     time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate       *time.Time `gorm:"column:end_date;type:date"`
	RequestedDays int        `gorm:"column:requested_days;not null;default:0"`
	Status        string     `gorm:"column:status;not null;default:pending"`
	Comments      string     `gorm:"column:comments"`
	ApproverID    *int64     `gorm:"column:approver_id"`
	ReservationID *string    `gorm:"column:reservation_id"`
	Version       int64      `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	DecidedAt     *time.Time `gorm:"column:decided_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "requests"
}

// ApprovalDecision is append-only; a request keeps at most one row.
type ApprovalDecision struct {
	ID         int64     `gorm:"primaryKey"`
	RequestID  int64     `gorm:"column:request_id;not null;uniqueIndex"`
	ApproverID int64     `gorm:"column:approver_id;not null"`
	Outcome    string    `gorm:"column:outcome;not null"`
	Comments   string    `gorm:"column:comments"`
	DecidedAt  time.Time `gorm:"column:decided_at;not null"`
}

func (ApprovalDecision) TableName() string {
	return "approval_decisions"
}
