// Package handlers serves the trigger API: validation, preview, iCalendar
// export, hand-off submission and the example catalog.
package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"notify-triggers/internal/brokers"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/config"
	"notify-triggers/internal/triggers"
	"notify-triggers/internal/triggers/examples"
)

// maxBodyBytes bounds a trigger document
const maxBodyBytes = 1 << 20

type Handlers struct {
	config    *config.Config
	publisher brokers.Publisher
	validator *triggers.Validator
	catalog   *examples.Catalog
	now       func() time.Time
}

// Option configures Handlers
type Option func(*Handlers)

// WithClock replaces the wall clock used for validation, previews and examples
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates the handlers. publisher may be nil when no hand-off broker is
// configured; submission then answers 503.
func New(cfg *config.Config, publisher brokers.Publisher, opts ...Option) *Handlers {
	h := &Handlers{
		config:    cfg,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.validator = triggers.NewValidator(triggers.WithClock(h.now))
	h.catalog = examples.NewCatalog(h.now)
	return h
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error string `json:"error" example:"'timestamp' must be in the future."`
	Code  string `json:"code,omitempty" example:"semantic_error"`
	Field string `json:"field,omitempty" example:"timestamp"`
}

// TriggerResponse carries a normalized trigger
type TriggerResponse struct {
	Type    string           `json:"type" example:"INTERVAL"`
	Trigger triggers.Trigger `json:"trigger" swaggertype:"object"`
}

// readTrigger decodes the request body as JSON or YAML and validates it
func (h *Handlers) readTrigger(w http.ResponseWriter, r *http.Request) (triggers.Trigger, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.ValidationError("failed to read request body").
			WithCode(triggers.CodeDecodeError).
			WithContext("field", "trigger")
	}

	var raw interface{}
	switch mediaType(r) {
	case "application/yaml", "application/x-yaml", "text/yaml":
		raw, err = triggers.DecodeYAML(body)
	case "application/json":
		raw, err = triggers.DecodeJSON(body)
	default:
		raw, err = triggers.Decode(body)
	}
	if err != nil {
		return nil, err
	}

	return h.validator.Validate(raw)
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func (h *Handlers) location() *time.Location {
	if h.config == nil {
		return time.UTC
	}
	return h.config.Location()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status code and an ErrorResponse body
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	response := ErrorResponse{Error: err.Error()}
	if appErr, ok := errors.As(err); ok {
		response.Error = appErr.Message
		response.Code = appErr.Code
		if field, ok := appErr.Context["field"].(string); ok {
			response.Field = field
		}
	}

	logger := logging.WithContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Trigger request failed", err)
		if status == http.StatusInternalServerError {
			response.Error = "internal server error"
		}
	} else {
		logger.Debug("Trigger request rejected",
			logging.Field{Key: "code", Value: response.Code},
			logging.Field{Key: "field", Value: response.Field},
		)
	}

	writeJSON(w, status, response)
}

func statusFor(err error) int {
	switch errors.GetType(err) {
	case errors.ErrTypeValidation:
		if triggers.ErrorCode(err) == triggers.CodeDecodeError {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	case errors.ErrTypeUnavailable, errors.ErrTypeConnection:
		return http.StatusServiceUnavailable
	case errors.ErrTypeAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
