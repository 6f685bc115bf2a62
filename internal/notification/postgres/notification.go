package postgres

import (
	"context"

	notificationDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/notification"
	"github.com/TonyS-dev/nexus-hr/internal/notification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationStore implements notification.Store using GORM. Record relies
// on the (request_id, kind) unique index with ON CONFLICT DO NOTHING, so
// redelivered events are silently dropped.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) notification.Store {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Record(ctx context.Context, n *notification.Notification) error {
	row := notificationDatamodel.NotificationEvent{
		RequestID:   n.RequestID,
		Kind:        n.Kind,
		RecipientID: n.RecipientID,
		Message:     n.Message,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (s *NotificationStore) ListForRecipient(ctx context.Context, recipientID int64, limit, offset int) ([]*notification.Notification, error) {
	var rows []notificationDatamodel.NotificationEvent
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, &notification.Notification{
			ID:          row.ID,
			RequestID:   row.RequestID,
			RecipientID: row.RecipientID,
			Kind:        row.Kind,
			Message:     row.Message,
			Read:        row.Read,
			CreatedAt:   row.CreatedAt,
		})
	}
	return notifications, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id, recipientID int64) error {
	res := s.db.WithContext(ctx).
		Model(&notificationDatamodel.NotificationEvent{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		UpdateColumn("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
