package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"notify-triggers/internal/common/ratelimit"
	"notify-triggers/internal/handlers"
	"notify-triggers/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application. A nil limiter
// leaves the API unthrottled.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, authMiddleware func(http.Handler) http.Handler, limiter *ratelimit.Limiter) {
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)

	// Health check (no auth required)
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	// Swagger UI (no auth required)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)
	if limiter != nil {
		// Runs after auth so authenticated clients are keyed by subject
		api.Use(ratelimit.HTTPMiddleware(limiter, ratelimit.ClientKey))
	}

	api.HandleFunc("/triggers/validate", h.ValidateTrigger).Methods("POST")
	api.HandleFunc("/triggers/preview", h.PreviewTrigger).Methods("POST")
	api.HandleFunc("/triggers/ical", h.ExportICal).Methods("POST")
	api.HandleFunc("/triggers/submit", h.SubmitTrigger).Methods("POST")
	api.HandleFunc("/triggers/examples", h.ListExamples).Methods("GET")
	api.HandleFunc("/triggers/examples/{name}", h.GetExample).Methods("GET")
}
