package workflow

import (
	"strings"

	"github.com/TonyS-dev/nexus-hr/internal"
	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/TonyS-dev/nexus-hr/internal/request"
)

var (
	ErrUnauthorizedActor       = internal.NewForbiddenError("actor is not authorized to act on this request", internal.ErrCodeUnauthorizedActor)
	ErrNotPending              = internal.NewConflictError("request is no longer pending", internal.ErrCodeNotPending)
	ErrAlreadyDecided          = internal.NewConflictError("request has already been decided", internal.ErrCodeAlreadyDecided)
	ErrMissingRejectionComment = internal.NewValidationError("rejecting a request requires a comment", internal.ErrCodeMissingComment)
	ErrInvalidDateRange        = internal.NewValidationError("invalid request date range", internal.ErrCodeInvalidDateRange)
	ErrInvalidOutcome          = internal.NewValidationError("outcome must be approved or rejected", internal.ErrCodeValidationFailed)
	ErrEmployeeInactive        = internal.NewForbiddenError("employee account is not active", internal.ErrCodeEmployeeInactive)
)

// DecideApproval is the pure approval policy: no I/O, no clock. It answers
// whether the actor may record the given outcome on the request right now.
//
// Allowed: the requester's direct manager, or any HR/Admin. Never the
// requester themselves, whatever their access level.
func DecideApproval(req *request.Request, requester, actor *employee.Employee, outcome, comments string) error {
	switch outcome {
	case request.OutcomeApproved, request.OutcomeRejected:
	default:
		return ErrInvalidOutcome
	}

	if outcome == request.OutcomeRejected && strings.TrimSpace(comments) == "" {
		return ErrMissingRejectionComment
	}

	switch req.Status {
	case request.StatusPending:
	case request.StatusApproved, request.StatusRejected:
		return ErrAlreadyDecided
	default:
		return ErrNotPending
	}

	// Self-approval is denied regardless of access level.
	if actor.ID == req.EmployeeID {
		return ErrUnauthorizedActor
	}
	if !actor.IsActive() {
		return ErrUnauthorizedActor
	}
	if !actor.CanApprove() {
		return ErrUnauthorizedActor
	}
	if !actor.IsHROrAdmin() {
		// Plain managers decide only for their direct reports.
		if requester.ManagerID == nil || *requester.ManagerID != actor.ID {
			return ErrUnauthorizedActor
		}
	}
	return nil
}

// AuthorizeCancel permits only the original requester, and only while the
// request is still pending.
func AuthorizeCancel(req *request.Request, actorID int64) error {
	if !req.IsPending() {
		return ErrNotPending
	}
	if req.EmployeeID != actorID {
		return ErrUnauthorizedActor
	}
	return nil
}
