package notification

import "time"

// NotificationEvent is deduplicated on (request_id, kind): a workflow
// transition happens at most once, so the same event is never stored twice.
type NotificationEvent struct {
	ID          int64     `gorm:"primaryKey"`
	RequestID   int64     `gorm:"column:request_id;not null;uniqueIndex:idx_notification_request_kind"`
	Kind        string    `gorm:"column:kind;not null;uniqueIndex:idx_notification_request_kind"`
	RecipientID int64     `gorm:"column:recipient_id;not null;index"`
	Message     string    `gorm:"column:message;not null"`
	Read        bool      `gorm:"column:read;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (NotificationEvent) TableName() string {
	return "notification_events"
}
