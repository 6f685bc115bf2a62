package workflow_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/TonyS-dev/nexus-hr/internal/request"
	"github.com/TonyS-dev/nexus-hr/internal/workflow"
)

var _ = Describe("Approval Policy", func() {
	var (
		requester *employee.Employee
		manager   *employee.Employee
		hr        *employee.Employee
		req       *request.Request
	)

	BeforeEach(func() {
		manager = &employee.Employee{ID: 1, AccessLevel: employee.AccessManager, Status: employee.StatusActive}
		requester = &employee.Employee{ID: 2, AccessLevel: employee.AccessEmployee, ManagerID: ptr(int64(1)), Status: employee.StatusActive}
		hr = &employee.Employee{ID: 3, AccessLevel: employee.AccessHR, Status: employee.StatusActive}
		req = &request.Request{ID: 10, EmployeeID: requester.ID, Type: request.TypeVacation, Status: request.StatusPending}
	})

	It("allows the direct manager to approve", func() {
		Expect(workflow.DecideApproval(req, requester, manager, request.OutcomeApproved, "")).To(Succeed())
	})

	It("allows HR to decide outside the reporting line", func() {
		Expect(workflow.DecideApproval(req, requester, hr, request.OutcomeRejected, "policy violation")).To(Succeed())
	})

	It("denies a manager outside the reporting line", func() {
		stranger := &employee.Employee{ID: 9, AccessLevel: employee.AccessManager, Status: employee.StatusActive}
		err := workflow.DecideApproval(req, requester, stranger, request.OutcomeApproved, "")
		Expect(err).To(MatchError(workflow.ErrUnauthorizedActor))
	})

	It("denies the requester deciding their own request", func() {
		ownReq := &request.Request{ID: 11, EmployeeID: manager.ID, Status: request.StatusPending}
		err := workflow.DecideApproval(ownReq, manager, manager, request.OutcomeApproved, "")
		Expect(err).To(MatchError(workflow.ErrUnauthorizedActor))
	})

	It("denies regular employees", func() {
		peer := &employee.Employee{ID: 8, AccessLevel: employee.AccessEmployee, Status: employee.StatusActive}
		err := workflow.DecideApproval(req, requester, peer, request.OutcomeApproved, "")
		Expect(err).To(MatchError(workflow.ErrUnauthorizedActor))
	})

	It("denies inactive actors", func() {
		manager.Status = employee.StatusSuspended
		err := workflow.DecideApproval(req, requester, manager, request.OutcomeApproved, "")
		Expect(err).To(MatchError(workflow.ErrUnauthorizedActor))
	})

	It("requires a non-blank comment for rejection", func() {
		err := workflow.DecideApproval(req, requester, manager, request.OutcomeRejected, "   ")
		Expect(err).To(MatchError(workflow.ErrMissingRejectionComment))
	})

	It("rejects unknown outcomes", func() {
		err := workflow.DecideApproval(req, requester, manager, "escalated", "")
		Expect(err).To(MatchError(workflow.ErrInvalidOutcome))
	})

	It("reports already-decided requests distinctly", func() {
		req.Status = request.StatusApproved
		err := workflow.DecideApproval(req, requester, manager, request.OutcomeRejected, "changed my mind")
		Expect(err).To(MatchError(workflow.ErrAlreadyDecided))
	})

	It("reports cancelled requests as no longer pending", func() {
		req.Status = request.StatusCancelled
		err := workflow.DecideApproval(req, requester, manager, request.OutcomeApproved, "")
		Expect(err).To(MatchError(workflow.ErrNotPending))
	})
})

var _ = Describe("AuthorizeCancel", func() {
	It("permits the requester on a pending request", func() {
		req := &request.Request{ID: 1, EmployeeID: 2, Status: request.StatusPending}
		Expect(workflow.AuthorizeCancel(req, 2)).To(Succeed())
	})

	It("denies everyone else", func() {
		req := &request.Request{ID: 1, EmployeeID: 2, Status: request.StatusPending}
		Expect(workflow.AuthorizeCancel(req, 3)).To(MatchError(workflow.ErrUnauthorizedActor))
	})

	It("denies cancelling a decided request", func() {
		req := &request.Request{ID: 1, EmployeeID: 2, Status: request.StatusApproved}
		Expect(workflow.AuthorizeCancel(req, 2)).To(MatchError(workflow.ErrNotPending))
	})
})

var _ = Describe("BusinessDaysInclusive", func() {
	// 2026-01-05 is a Monday.
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	It("counts a full Monday-Friday week as five days", func() {
		Expect(workflow.BusinessDaysInclusive(monday, monday.AddDate(0, 0, 4))).To(Equal(5))
	})

	It("counts a single weekday as one day", func() {
		Expect(workflow.BusinessDaysInclusive(monday, monday)).To(Equal(1))
	})

	It("skips weekends inside the range", func() {
		// Monday through the following Wednesday: 5 + 3 weekdays.
		Expect(workflow.BusinessDaysInclusive(monday, monday.AddDate(0, 0, 9))).To(Equal(8))
	})

	It("returns zero for a weekend-only range", func() {
		saturday := monday.AddDate(0, 0, 5)
		sunday := monday.AddDate(0, 0, 6)
		Expect(workflow.BusinessDaysInclusive(saturday, sunday)).To(Equal(0))
	})

	It("returns zero when end precedes start", func() {
		Expect(workflow.BusinessDaysInclusive(monday, monday.AddDate(0, 0, -1))).To(Equal(0))
	})
})
