package employee

import (
	"log/slog"
	"net/http"

	"github.com/TonyS-dev/nexus-hr/internal/transport"
	"github.com/TonyS-dev/nexus-hr/pkg/logger"
)

// contextEmployee matches auth.EmployeeFromContext without importing the
// auth package (auth already imports this one).
type contextEmployee func(r *http.Request) (*Employee, bool)

type Handler struct {
	*transport.BaseHandler
	Service     *Service
	FromRequest contextEmployee
}

func NewHandler(service *Service, fromRequest func(r *http.Request) (*Employee, bool)) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		FromRequest: fromRequest,
	}
}

// GetCurrentEmployee returns the profile of the authenticated employee.
func (h *Handler) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.FromRequest(r)
	if !ok || emp == nil {
		h.Logger.Error("GetCurrentEmployee: employee not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}
