package handlers

import (
	"net/http"
)

// HealthResponse reports service and broker health
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
	Broker string `json:"broker" example:"redis"`
	Error  string `json:"error,omitempty"`
}

// HealthCheck reports whether the service and its broker are usable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Broker unhealthy"
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Broker: "none"})
		return
	}

	if err := h.publisher.Health(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Broker: h.publisher.Name(),
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Broker: h.publisher.Name()})
}
