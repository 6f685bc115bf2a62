package workflow

import (
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
	"github.com/TonyS-dev/nexus-hr/internal/request"
)

// CreateRequestDTO is the transport shape for submitting a request.
type CreateRequestDTO struct {
	Type      string     `json:"type"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Comments  string     `json:"comments,omitempty"`
}

// Validate checks the command against the clock: end must not precede
// start, and start may lie at most graceDays in the past.
func (d CreateRequestDTO) Validate(now time.Time, graceDays int) error {
	if !request.ValidType(d.Type) {
		return internal.NewValidationError("unknown request type", internal.ErrCodeInvalidType)
	}
	if d.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}

	earliest := truncateToDate(now).AddDate(0, 0, -graceDays)
	if truncateToDate(d.StartDate).Before(earliest) {
		return ErrInvalidDateRange
	}

	if d.Type == request.TypeCertificate {
		return nil
	}

	if d.EndDate == nil {
		return internal.NewValidationFieldError("end_date", "end_date is required for vacation and leave requests", internal.ErrCodeValidationFailed)
	}
	if truncateToDate(*d.EndDate).Before(truncateToDate(d.StartDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// DecideRequestDTO carries an approve/reject body.
type DecideRequestDTO struct {
	Comments string `json:"comments,omitempty"`
}
