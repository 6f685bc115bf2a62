package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/TonyS-dev/nexus-hr/internal/auth"
	"github.com/TonyS-dev/nexus-hr/internal/employee"
	"github.com/TonyS-dev/nexus-hr/internal/notification"
	"github.com/TonyS-dev/nexus-hr/internal/transport/middleware"
	"github.com/TonyS-dev/nexus-hr/internal/transport/swagger"
	"github.com/TonyS-dev/nexus-hr/internal/workflow"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, employeeHandler *employee.Handler, workflowHandler *workflow.Handler, notificationHandler *notification.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current employee
				if employeeHandler != nil {
					pr.Get("/employees/me", employeeHandler.GetCurrentEmployee)
				}

				// Request workflow routes
				if workflowHandler != nil {
					pr.Route("/requests", func(rr chi.Router) {
						rr.Post("/", workflowHandler.CreateRequest)   // POST /requests
						rr.Get("/", workflowHandler.ListRequests)     // GET /requests
						rr.Get("/{id}", workflowHandler.GetRequest)   // GET /requests/:id
						rr.Patch("/{id}/cancel", workflowHandler.CancelRequest)

						// Approver routes gated on access level
						rr.Group(func(ar chi.Router) {
							ar.Use(middleware.RequireAccessLevel(
								employee.AccessManager,
								employee.AccessHR,
								employee.AccessAdmin,
							))
							ar.Get("/pending", workflowHandler.ListPendingApprovals) // GET /requests/pending
							ar.Patch("/{id}/approve", workflowHandler.ApproveRequest)
							ar.Patch("/{id}/reject", workflowHandler.RejectRequest)
						})
					})

					pr.Get("/balance", workflowHandler.GetBalance) // GET /balance
				}

				// Notification feed
				if notificationHandler != nil {
					pr.Route("/notifications", func(nr chi.Router) {
						nr.Get("/", notificationHandler.ListNotifications)
						nr.Patch("/{id}/read", notificationHandler.MarkRead)
					})
				}
			})
		}
	})
}
