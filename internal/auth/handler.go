package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/TonyS-dev/nexus-hr/internal/transport"
	"github.com/TonyS-dev/nexus-hr/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Directory employee.Directory
}

func NewHandler(service ServiceAPI, directory employee.Directory) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Directory:   directory,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Login: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		switch err.(type) {
		case ValidationError:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Warn("Login: authentication failed", "email", dto.Email)
			h.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RefreshToken: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("RefreshToken: refresh failed", "error", err)
		h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// AuthMiddleware resolves the acting employee from the bearer token and
// stores it in the request context. Handlers downstream trust this resolved
// identity and never parse tokens themselves.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(tokenString)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		emp, err := h.Directory.GetEmployee(r.Context(), claims.EmployeeID)
		if err != nil {
			h.Logger.Warn("AuthMiddleware: token for unknown employee", "employee_id", claims.EmployeeID)
			h.WriteError(w, http.StatusUnauthorized, "unknown employee")
			return
		}
		if !emp.IsActive() {
			h.WriteError(w, http.StatusForbidden, ErrEmployeeInactive.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithEmployee(r.Context(), emp)))
	})
}
