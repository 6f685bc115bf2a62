package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal"
	"github.com/TonyS-dev/nexus-hr/internal/core/events"
	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/TonyS-dev/nexus-hr/internal/ledger"
	"github.com/TonyS-dev/nexus-hr/internal/request"
)

// Ledger is the narrow view of the vacation-day ledger the engine needs.
type Ledger interface {
	Reserve(ctx context.Context, employeeID int64, year, days int) (string, error)
	Commit(ctx context.Context, reservationID string) error
	Release(ctx context.Context, reservationID string) error
	GetBalance(ctx context.Context, employeeID int64, year int) (*ledger.Balance, error)
}

// EventPublisher dispatches notification events after a transition is
// durable. Publish failures are degraded delivery, never workflow failures.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the request lifecycle engine. It holds no mutable state of its
// own; every shared resource is mutated through the ledger's atomic
// reserve/commit/release and the repository's versioned transitions, so
// concurrent instances are safe.
type Service struct {
	repo      request.Repository
	ledger    Ledger
	directory employee.Directory
	publisher EventPublisher
	config    internal.WorkflowConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo request.Repository, ldg Ledger, directory employee.Directory, publisher EventPublisher, config internal.WorkflowConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		ledger:    ldg,
		directory: directory,
		publisher: publisher,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateRequest validates the command, reserves vacation days when the type
// consumes them, and persists the request in pending status. The reservation
// and the request row succeed or fail together: if the insert fails after a
// reservation was taken, the reservation is released before returning.
func (s *Service) CreateRequest(ctx context.Context, employeeID int64, dto CreateRequestDTO) (*request.Request, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	if err := dto.Validate(s.now(), s.config.GraceDays); err != nil {
		s.logger.Warn("create request validation failed", "error", err, "employee_id", employeeID)
		return nil, err
	}

	requester, err := s.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !requester.IsActive() {
		s.logger.Warn("create request denied: requester not active", "employee_id", employeeID, "status", requester.Status)
		return nil, ErrEmployeeInactive
	}

	req := &request.Request{
		EmployeeID: employeeID,
		Type:       dto.Type,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		Comments:   dto.Comments,
		Status:     request.StatusPending,
	}

	if req.RequiresBalance() {
		days := BusinessDaysInclusive(dto.StartDate, *dto.EndDate)
		if days == 0 {
			return nil, ErrInvalidDateRange
		}
		req.RequestedDays = days

		reservationID, err := s.ledger.Reserve(ctx, employeeID, dto.StartDate.Year(), days)
		if err != nil {
			return nil, err
		}
		req.ReservationID = &reservationID
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error("failed to persist request", "error", err, "employee_id", employeeID)
		if req.ReservationID != nil {
			// A reservation without a request is a leak; undo it. The
			// insert may have failed because the deadline expired, so the
			// compensation must not run on the dying context.
			relCtx := context.WithoutCancel(ctx)
			if relErr := s.ledger.Release(relCtx, *req.ReservationID); relErr != nil {
				s.logger.Error("failed to release orphan reservation",
					"error", relErr, "reservation_id", *req.ReservationID)
			}
		}
		return nil, internal.NewInternalError("failed to create request", err)
	}

	s.logger.Info("request created",
		"request_id", req.ID,
		"employee_id", employeeID,
		"type", req.Type,
		"requested_days", req.RequestedDays)

	if requester.ManagerID != nil {
		s.notify(ctx, events.EventTypeRequestSubmitted, events.KindSubmitted, req, *requester.ManagerID,
			fmt.Sprintf("%s request #%d submitted by %s", req.Type, req.ID, requester.Name))
	} else {
		s.logger.Debug("request has no manager to notify", "request_id", req.ID)
	}

	return req, nil
}

// Decide records an approval or rejection. The status transition, decision
// row, version bump and ledger settlement commit as one transaction; a
// concurrent decision surfaces as ErrConcurrentModification and applies no
// side effect, and a failed settlement rolls the transition back so the
// request stays pending and the call can simply be retried.
func (s *Service) Decide(ctx context.Context, requestID, actorID int64, outcome, comments string) error {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	requester, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return err
	}
	actor, err := s.directory.GetEmployee(ctx, actorID)
	if err != nil {
		return err
	}

	if err := DecideApproval(req, requester, actor, outcome, comments); err != nil {
		s.logger.Warn("decision denied by policy",
			"request_id", requestID,
			"actor_id", actorID,
			"outcome", outcome,
			"reason", err.Error())
		return err
	}

	decidedAt := s.now()
	status := request.StatusApproved
	if outcome == request.OutcomeRejected {
		status = request.StatusRejected
	}

	transition := request.Transition{
		Status:     status,
		ApproverID: &actorID,
		DecidedAt:  decidedAt,
		Decision: &request.ApprovalDecision{
			RequestID:  requestID,
			ApproverID: actorID,
			Outcome:    outcome,
			Comments:   comments,
			DecidedAt:  decidedAt,
		},
		Settle: func(ctx context.Context) error {
			return s.settleLedger(ctx, req, outcome)
		},
	}
	if err := s.repo.Transition(ctx, requestID, req.Version, transition); err != nil {
		if err == request.ErrConcurrentModification {
			s.logger.Info("decision lost the version race",
				"request_id", requestID, "actor_id", actorID, "version", req.Version)
		} else {
			s.logger.Error("failed to transition request", "error", err, "request_id", requestID)
		}
		return err
	}

	s.logger.Info("request decided",
		"request_id", requestID,
		"actor_id", actorID,
		"outcome", outcome)

	eventType := events.EventTypeRequestApproved
	kind := events.KindApproved
	message := fmt.Sprintf("%s request #%d approved", req.Type, req.ID)
	if outcome == request.OutcomeRejected {
		eventType = events.EventTypeRequestRejected
		kind = events.KindRejected
		message = fmt.Sprintf("%s request #%d rejected: %s", req.Type, req.ID, comments)
	}
	s.notify(ctx, eventType, kind, req, req.EmployeeID, message)

	return nil
}

// Cancel lets the original requester withdraw a pending request. Same
// optimistic-concurrency discipline as Decide.
func (s *Service) Cancel(ctx context.Context, requestID, actorID int64) error {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if err := AuthorizeCancel(req, actorID); err != nil {
		s.logger.Warn("cancel denied",
			"request_id", requestID, "actor_id", actorID, "reason", err.Error())
		return err
	}

	cancelledAt := s.now()
	transition := request.Transition{
		Status:    request.StatusCancelled,
		DecidedAt: cancelledAt,
	}
	if req.ReservationID != nil {
		reservationID := *req.ReservationID
		transition.Settle = func(ctx context.Context) error {
			return s.ledger.Release(ctx, reservationID)
		}
	}
	if err := s.repo.Transition(ctx, requestID, req.Version, transition); err != nil {
		return err
	}

	s.logger.Info("request cancelled", "request_id", requestID, "employee_id", actorID)

	requester, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err == nil && requester.ManagerID != nil {
		s.notify(ctx, events.EventTypeRequestCancelled, events.KindCancelled, req, *requester.ManagerID,
			fmt.Sprintf("%s request #%d cancelled by %s", req.Type, req.ID, requester.Name))
	}

	return nil
}

// GetBalance is the read-only projection used by dashboards.
func (s *Service) GetBalance(ctx context.Context, employeeID int64, year int) (*ledger.Balance, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()
	return s.ledger.GetBalance(ctx, employeeID, year)
}

// GetRequest returns a single request with access control: the requester
// sees their own, approver-level employees see everything.
func (s *Service) GetRequest(ctx context.Context, requestID, actorID int64) (*request.Request, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID == actorID {
		return req, nil
	}

	actor, err := s.directory.GetEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanApprove() {
		return nil, ErrUnauthorizedActor
	}
	return req, nil
}

func (s *Service) ListRequests(ctx context.Context, employeeID int64, limit, offset int) ([]*request.Request, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()
	return s.repo.ListByEmployee(ctx, employeeID, limit, offset)
}

// ListPendingApprovals is the approver inbox. HR/Admin see every pending
// request; managers only those of their direct reports.
func (s *Service) ListPendingApprovals(ctx context.Context, actorID int64, limit, offset int) ([]*request.Request, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.config.OperationTimeout)
	defer cancel()

	actor, err := s.directory.GetEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanApprove() {
		return nil, ErrUnauthorizedActor
	}

	pending, err := s.repo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if actor.IsHROrAdmin() {
		return pending, nil
	}

	filtered := make([]*request.Request, 0, len(pending))
	for _, req := range pending {
		requester, err := s.directory.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			s.logger.Warn("skipping pending request with unknown requester",
				"request_id", req.ID, "employee_id", req.EmployeeID)
			continue
		}
		if requester.ManagerID != nil && *requester.ManagerID == actor.ID {
			filtered = append(filtered, req)
		}
	}
	return filtered, nil
}

func (s *Service) settleLedger(ctx context.Context, req *request.Request, outcome string) error {
	if req.ReservationID == nil {
		return nil
	}
	if outcome == request.OutcomeApproved {
		return s.ledger.Commit(ctx, *req.ReservationID)
	}
	return s.ledger.Release(ctx, *req.ReservationID)
}

func (s *Service) notify(ctx context.Context, eventType, kind string, req *request.Request, recipientID int64, message string) {
	event := events.NewRequestTransitionEvent(eventType, req.ID, req.EmployeeID, recipientID, kind, message)
	// context.WithoutCancel: the transition is durable, delivery must not
	// die with the request deadline.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("notification dispatch degraded",
			"error", err,
			"request_id", req.ID,
			"kind", kind)
	}
}
