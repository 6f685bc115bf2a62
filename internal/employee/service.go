package employee

import (
	"context"
	"log/slog"
)

// Service handles directory reads for the HTTP layer.
type Service struct {
	directory Directory
	logger    *slog.Logger
}

func NewService(directory Directory, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		logger:    logger,
	}
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	emp, err := s.directory.GetEmployee(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, err
	}
	return emp, nil
}
