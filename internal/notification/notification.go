package notification

import (
	"context"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
)

// Notification is one entry in an employee's feed. A (RequestID, Kind) pair
// is stored at most once, so redelivered events never duplicate entries.
type Notification struct {
	ID          int64     `json:"id"`
	RequestID   int64     `json:"request_id"`
	RecipientID int64     `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store interface {
	// Record persists a notification. Inserting an already-recorded
	// (request_id, kind) pair is a no-op.
	Record(ctx context.Context, n *Notification) error
	ListForRecipient(ctx context.Context, recipientID int64, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
}

var ErrNotificationNotFound = internal.NewNotFoundError("notification not found", internal.ErrCodeNotificationNotFound)
