package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TonyS-dev/nexus-hr/internal/core/events"
)

// Dispatcher turns request transition events into stored notifications.
// It subscribes to the event bus; delivery is at-least-once, so Record must
// tolerate replays.
type Dispatcher struct {
	store  Store
	logger *slog.Logger
}

func NewDispatcher(store Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		logger: logger,
	}
}

func (d *Dispatcher) HandleRequestTransition(ctx context.Context, event events.Event) error {
	transitionEvent, ok := event.(*events.RequestTransitionEvent)
	if !ok {
		d.logger.Error("invalid event type for request transition handler", "event_type", event.EventType())
		return fmt.Errorf("expected RequestTransitionEvent, got %T", event)
	}

	n := &Notification{
		RequestID:   transitionEvent.RequestID,
		RecipientID: transitionEvent.RecipientID,
		Kind:        transitionEvent.Kind,
		Message:     transitionEvent.Message,
	}

	if err := d.store.Record(ctx, n); err != nil {
		d.logger.Error("failed to record notification",
			"error", err,
			"request_id", transitionEvent.RequestID,
			"recipient_id", transitionEvent.RecipientID,
			"kind", transitionEvent.Kind,
			"event_id", transitionEvent.EventID())
		return fmt.Errorf("record notification for request %d: %w", transitionEvent.RequestID, err)
	}

	d.logger.Info("notification recorded",
		"request_id", transitionEvent.RequestID,
		"recipient_id", transitionEvent.RecipientID,
		"kind", transitionEvent.Kind,
		"event_id", transitionEvent.EventID())

	return nil
}

func (d *Dispatcher) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeRequestSubmitted, d.HandleRequestTransition)
	eventBus.Subscribe(events.EventTypeRequestApproved, d.HandleRequestTransition)
	eventBus.Subscribe(events.EventTypeRequestRejected, d.HandleRequestTransition)
	eventBus.Subscribe(events.EventTypeRequestCancelled, d.HandleRequestTransition)

	d.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeRequestSubmitted,
			events.EventTypeRequestApproved,
			events.EventTypeRequestRejected,
			events.EventTypeRequestCancelled,
		})
}
