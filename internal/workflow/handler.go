package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/TonyS-dev/nexus-hr/internal/auth"
	"github.com/TonyS-dev/nexus-hr/internal/ledger"
	"github.com/TonyS-dev/nexus-hr/internal/request"
	"github.com/TonyS-dev/nexus-hr/internal/transport"
	"github.com/TonyS-dev/nexus-hr/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRequest(ctx context.Context, employeeID int64, dto CreateRequestDTO) (*request.Request, error)
	Decide(ctx context.Context, requestID, actorID int64, outcome, comments string) error
	Cancel(ctx context.Context, requestID, actorID int64) error
	GetRequest(ctx context.Context, requestID, actorID int64) (*request.Request, error)
	ListRequests(ctx context.Context, employeeID int64, limit, offset int) ([]*request.Request, error)
	ListPendingApprovals(ctx context.Context, actorID int64, limit, offset int) ([]*request.Request, error)
	GetBalance(ctx context.Context, employeeID int64, year int) (*ledger.Balance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.Logger.Error("CreateRequest: employee not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), emp.ID, dto)
	if err != nil {
		h.Logger.Error("CreateRequest: service error", "error", err, "employee_id", emp.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateRequest: request created",
		"request_id", req.ID,
		"employee_id", emp.ID,
		"type", req.Type,
		"requested_days", req.RequestedDays)

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := h.requestIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	req, err := h.Service.GetRequest(r.Context(), requestID, emp.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	requests, err := h.Service.ListRequests(r.Context(), emp.ID, limit, offset)
	if err != nil {
		h.Logger.Error("ListRequests: service error", "error", err, "employee_id", emp.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListPendingApprovals is the approver inbox.
func (h *Handler) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	requests, err := h.Service.ListPendingApprovals(r.Context(), emp.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, request.OutcomeApproved)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, request.OutcomeRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, outcome string) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := h.requestIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto DecideRequestDTO
	if r.Body != nil {
		// Body is optional for approvals.
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	if err := h.Service.Decide(r.Context(), requestID, emp.ID, outcome, dto.Comments); err != nil {
		h.Logger.Error("Decide: service error",
			"error", err,
			"request_id", requestID,
			"actor_id", emp.ID,
			"outcome", outcome)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Decide: request decided", "request_id", requestID, "actor_id", emp.ID, "outcome", outcome)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": outcome})
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID, err := h.requestIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	if err := h.Service.Cancel(r.Context(), requestID, emp.ID); err != nil {
		h.Logger.Error("Cancel: service error", "error", err, "request_id", requestID, "actor_id", emp.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": request.StatusCancelled})
}

// GetBalance serves the dashboard projection. Year defaults to the current
// one.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	emp, ok := auth.EmployeeFromContext(r.Context())
	if !ok || emp == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil && y > 2000 && y < 2200 {
			year = y
		}
	}

	balance, err := h.Service.GetBalance(r.Context(), emp.ID, year)
	if err != nil {
		h.Logger.Error("GetBalance: service error", "error", err, "employee_id", emp.ID, "year", year)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, balance)
}

func (h *Handler) requestIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}
