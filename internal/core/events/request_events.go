package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestSubmitted = "request.submitted"
	EventTypeRequestApproved  = "request.approved"
	EventTypeRequestRejected  = "request.rejected"
	EventTypeRequestCancelled = "request.cancelled"
)

// Notification kinds, the recipient-side dedup key together with request_id.
const (
	KindSubmitted = "submitted"
	KindApproved  = "approved"
	KindRejected  = "rejected"
	KindCancelled = "cancelled"
)

// RequestTransitionEvent is emitted after a request state change is durable.
// RecipientID is the employee whose notification feed records the event.
type RequestTransitionEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	EmployeeID  int64  `json:"employee_id"`
	RecipientID int64  `json:"recipient_id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

func NewRequestTransitionEvent(eventType string, requestID, employeeID, recipientID int64, kind, message string) *RequestTransitionEvent {
	return &RequestTransitionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"employee_id":  employeeID,
				"recipient_id": recipientID,
				"kind":         kind,
				"message":      message,
			},
		},
		RequestID:   requestID,
		EmployeeID:  employeeID,
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
	}
}
