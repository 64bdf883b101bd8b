package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"notify-triggers/internal/auth"
	"notify-triggers/internal/brokers"
	"notify-triggers/internal/brokers/manager"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/common/validation"
	"notify-triggers/internal/middleware"
	"notify-triggers/internal/protocols/ical"
	"notify-triggers/internal/triggers"
	"notify-triggers/internal/triggers/preview"
)

// PreviewResponse lists the upcoming fire times of a trigger
type PreviewResponse struct {
	TriggerResponse
	Timezone  string      `json:"timezone" example:"Europe/Paris"`
	FireTimes []time.Time `json:"fire_times"`
}

// SubmitResponse acknowledges a trigger handed to the broker
type SubmitResponse struct {
	TriggerResponse
	brokers.Receipt
}

// ValidateTrigger normalizes a trigger configuration
// @Summary Validate trigger
// @Description Checks a trigger configuration and returns its normalized form with defaults applied. Accepts JSON or YAML.
// @Tags triggers
// @Accept json
// @Accept x-yaml
// @Produce json
// @Security BearerAuth
// @Param trigger body object true "Trigger configuration"
// @Success 200 {object} TriggerResponse "Normalized trigger"
// @Failure 400 {object} ErrorResponse "Malformed document"
// @Failure 422 {object} ErrorResponse "Invalid trigger"
// @Router /triggers/validate [post]
func (h *Handlers) ValidateTrigger(w http.ResponseWriter, r *http.Request) {
	trigger, err := h.readTrigger(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TriggerResponse{Type: trigger.Kind().String(), Trigger: trigger})
}

// PreviewTrigger returns the next fire times of a trigger
// @Summary Preview fire times
// @Description Validates a trigger and lists its upcoming fire times. Nothing is scheduled.
// @Tags triggers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trigger body object true "Trigger configuration"
// @Param count query int false "Number of fire times (1-100)"
// @Param tz query string false "IANA timezone used for calendar fields"
// @Success 200 {object} PreviewResponse "Upcoming fire times"
// @Failure 400 {object} ErrorResponse "Malformed document or query"
// @Failure 422 {object} ErrorResponse "Invalid trigger"
// @Router /triggers/preview [post]
func (h *Handlers) PreviewTrigger(w http.ResponseWriter, r *http.Request) {
	count, err := h.previewCount(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	loc, err := h.requestLocation(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trigger, err := h.readTrigger(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	times, err := preview.Next(trigger, h.now(), count, loc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		TriggerResponse: TriggerResponse{Type: trigger.Kind().String(), Trigger: trigger},
		Timezone:        loc.String(),
		FireTimes:       times,
	})
}

// ExportICal renders a trigger as an iCalendar document
// @Summary Export as iCalendar
// @Description Validates a trigger and renders it as a VCALENDAR with one recurring VEVENT.
// @Tags triggers
// @Accept json
// @Produce plain
// @Security BearerAuth
// @Param trigger body object true "Trigger configuration"
// @Param summary query string false "Event summary"
// @Param tz query string false "IANA timezone used for calendar fields"
// @Success 200 {string} string "text/calendar document"
// @Failure 400 {object} ErrorResponse "Malformed document or query"
// @Failure 422 {object} ErrorResponse "Invalid trigger"
// @Router /triggers/ical [post]
func (h *Handlers) ExportICal(w http.ResponseWriter, r *http.Request) {
	loc, err := h.requestLocation(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	trigger, err := h.readTrigger(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := ical.Encode(trigger, ical.Options{
		Summary:  r.URL.Query().Get("summary"),
		Location: loc,
		Now:      h.now,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ical.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="trigger.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SubmitTrigger validates a trigger and hands it to the configured broker
// @Summary Submit trigger
// @Description Validates a trigger and publishes its normalized form to the hand-off broker.
// @Tags triggers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trigger body object true "Trigger configuration"
// @Success 202 {object} SubmitResponse "Trigger accepted by the broker"
// @Failure 400 {object} ErrorResponse "Malformed document"
// @Failure 422 {object} ErrorResponse "Invalid trigger"
// @Failure 503 {object} ErrorResponse "No broker configured or broker unavailable"
// @Router /triggers/submit [post]
func (h *Handlers) SubmitTrigger(w http.ResponseWriter, r *http.Request) {
	trigger, err := h.readTrigger(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	headers := map[string]string{}
	if requestID := middleware.RequestIDFromContext(r.Context()); requestID != "" {
		headers["request_id"] = requestID
	}
	if subject := auth.SubjectFromContext(r.Context()); subject != "" {
		headers["subject"] = subject
	}

	receipt, err := manager.Submit(r.Context(), h.publisher, trigger, headers)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.WithContext(r.Context()).Info("Trigger submitted",
		logging.Field{Key: "message_id", Value: receipt.MessageID},
		logging.Field{Key: "broker", Value: receipt.Broker},
		logging.Field{Key: "type", Value: trigger.Kind().String()},
	)

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		TriggerResponse: TriggerResponse{Type: trigger.Kind().String(), Trigger: trigger},
		Receipt:         *receipt,
	})
}

// ListExamples returns every example trigger configuration
// @Summary List example triggers
// @Description Returns the built-in example configurations keyed by name. Timestamps are relative to the request time.
// @Tags examples
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]object "Examples by name"
// @Router /triggers/examples [get]
func (h *Handlers) ListExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

// GetExample returns one example trigger configuration
// @Summary Get example trigger
// @Tags examples
// @Produce json
// @Security BearerAuth
// @Param name path string true "Example name"
// @Success 200 {object} object "Example configuration"
// @Failure 404 {object} ErrorResponse "Unknown example"
// @Router /triggers/examples/{name} [get]
func (h *Handlers) GetExample(w http.ResponseWriter, r *http.Request) {
	example, err := h.catalog.Get(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, example)
}

// previewCount reads ?count, falling back to the configured default
func (h *Handlers) previewCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		if h.config != nil && h.config.PreviewCount > 0 {
			return h.config.PreviewCount, nil
		}
		return 5, nil
	}

	count, err := strconv.Atoi(raw)
	if err != nil || !validation.InRange(int64(count), 1, preview.MaxCount) {
		return 0, errors.ValidationError(fmt.Sprintf("'count' must be a whole number between 1 and %d.", preview.MaxCount)).
			WithCode(triggers.CodeDecodeError).
			WithContext("field", "count")
	}
	return count, nil
}

// requestLocation reads ?tz, falling back to the configured timezone
func (h *Handlers) requestLocation(r *http.Request) (*time.Location, error) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		return h.location(), nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("'tz' is not a known timezone: %s", tz)).
			WithCode(triggers.CodeDecodeError).
			WithContext("field", "tz")
	}
	return loc, nil
}
