package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	AccessLevel  string    `gorm:"column:access_level;not null;default:employee"`
	ManagerID    *int64    `gorm:"column:manager_id"`
	Status       string    `gorm:"column:status;not null;default:active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
