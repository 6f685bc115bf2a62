package notification

import (
	"context"
	"log/slog"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]*Notification, error) {
	notifications, err := s.store.ListForRecipient(ctx, employeeID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return notifications, nil
}

// MarkRead only touches notifications addressed to the caller, so an
// employee cannot mark another feed's entries.
func (s *Service) MarkRead(ctx context.Context, id, employeeID int64) error {
	if err := s.store.MarkRead(ctx, id, employeeID); err != nil {
		s.logger.Error("failed to mark notification read", "error", err, "notification_id", id, "employee_id", employeeID)
		return err
	}
	return nil
}
