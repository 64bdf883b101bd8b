package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"notify-triggers/internal/brokers"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/config"
	"notify-triggers/internal/triggers/examples"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type mockPublisher struct {
	published  []*brokers.Message
	publishErr error
	healthErr  error
}

func (m *mockPublisher) Name() string { return "mock" }

func (m *mockPublisher) Publish(ctx context.Context, message *brokers.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, message)
	return nil
}

func (m *mockPublisher) Health() error { return m.healthErr }
func (m *mockPublisher) Close() error  { return nil }

func newTestHandlers(publisher brokers.Publisher) *Handlers {
	cfg := &config.Config{Timezone: "UTC", PreviewCount: 5}
	return New(cfg, publisher, WithClock(func() time.Time { return testNow }))
}

func doRequest(handler http.HandlerFunc, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return response
}

func TestValidateTrigger(t *testing.T) {
	h := newTestHandlers(nil)
	future := testNow.Add(time.Hour).UnixMilli()

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantType    string
		wantJSON    string
		wantCode    string
		wantField   string
	}{
		{
			name:        "interval",
			contentType: "application/json",
			body:        `{"type":1,"interval":30,"timeUnit":"MINUTES"}`,
			wantStatus:  http.StatusOK,
			wantType:    "INTERVAL",
			wantJSON:    `{"type":1,"interval":30,"timeUnit":"MINUTES"}`,
		},
		{
			name:       "timestamp defaults",
			body:       fmt.Sprintf(`{"type":0,"timestamp":%d}`, future),
			wantStatus: http.StatusOK,
			wantType:   "TIMESTAMP",
			wantJSON:   fmt.Sprintf(`{"type":0,"timestamp":%d,"repeatFrequency":-1}`, future),
		},
		{
			name:        "calendar as yaml",
			contentType: "application/yaml",
			body:        "type: CALENDAR\nyear: 2030\nmonth: 1\nday: 2\nhour: 3\nminute: 4\nsecond: 5\nrepeats: true\n",
			wantStatus:  http.StatusOK,
			wantType:    "CALENDAR",
			wantJSON:    `{"type":2,"year":2030,"month":1,"day":2,"hour":3,"minute":4,"second":5,"repeats":true}`,
		},
		{
			name:       "interval too short",
			body:       `{"type":1,"interval":5,"timeUnit":"MINUTES"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "semantic_error",
			wantField:  "interval",
		},
		{
			name:       "timestamp in the past",
			body:       fmt.Sprintf(`{"type":0,"timestamp":%d}`, testNow.Add(-time.Hour).UnixMilli()),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "semantic_error",
			wantField:  "timestamp",
		},
		{
			name:       "unknown type",
			body:       `{"type":9}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "unknown_type",
			wantField:  "type",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"type":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "decode_error",
			wantField:   "trigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h.ValidateTrigger, http.MethodPost, "/api/v1/triggers/validate", tt.contentType, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantStatus != http.StatusOK {
				response := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, response.Code)
				assert.Equal(t, tt.wantField, response.Field)
				assert.NotEmpty(t, response.Error)
				return
			}

			var response struct {
				Type    string          `json:"type"`
				Trigger json.RawMessage `json:"trigger"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.wantType, response.Type)
			assert.JSONEq(t, tt.wantJSON, string(response.Trigger))
		})
	}
}

type previewBody struct {
	Type      string      `json:"type"`
	Timezone  string      `json:"timezone"`
	FireTimes []time.Time `json:"fire_times"`
}

func TestPreviewTrigger(t *testing.T) {
	h := newTestHandlers(nil)

	t.Run("interval with count", func(t *testing.T) {
		rec := doRequest(h.PreviewTrigger, http.MethodPost, "/api/v1/triggers/preview?count=3", "",
			`{"type":1,"interval":30,"timeUnit":"MINUTES"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body previewBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "INTERVAL", body.Type)
		assert.Equal(t, "UTC", body.Timezone)
		require.Len(t, body.FireTimes, 3)
		for i, fire := range body.FireTimes {
			assert.True(t, fire.Equal(testNow.Add(time.Duration(i+1)*30*time.Minute)), "fire time %d = %v", i, fire)
		}
	})

	t.Run("default count", func(t *testing.T) {
		rec := doRequest(h.PreviewTrigger, http.MethodPost, "/api/v1/triggers/preview", "",
			`{"type":1,"interval":1,"timeUnit":"HOURS"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body previewBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body.FireTimes, 5)
	})

	t.Run("calendar in timezone", func(t *testing.T) {
		rec := doRequest(h.PreviewTrigger, http.MethodPost, "/api/v1/triggers/preview?tz=Europe/Paris", "",
			`{"type":2,"year":2030,"month":1,"day":1,"hour":9,"minute":0,"second":0}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body previewBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Europe/Paris", body.Timezone)
		require.Len(t, body.FireTimes, 1)
		assert.True(t, body.FireTimes[0].Equal(time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)))
	})

	for _, target := range []string{
		"/api/v1/triggers/preview?count=0",
		"/api/v1/triggers/preview?count=101",
		"/api/v1/triggers/preview?count=many",
	} {
		t.Run("bad count "+target, func(t *testing.T) {
			rec := doRequest(h.PreviewTrigger, http.MethodPost, target, "", `{"type":1,"interval":1,"timeUnit":"HOURS"}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "count", decodeError(t, rec).Field)
		})
	}

	t.Run("bad timezone", func(t *testing.T) {
		rec := doRequest(h.PreviewTrigger, http.MethodPost, "/api/v1/triggers/preview?tz=Mars/Base", "", `{"type":1,"interval":1,"timeUnit":"HOURS"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "tz", decodeError(t, rec).Field)
	})

	t.Run("invalid trigger", func(t *testing.T) {
		rec := doRequest(h.PreviewTrigger, http.MethodPost, "/api/v1/triggers/preview", "", `{"type":2,"year":2030}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "month", decodeError(t, rec).Field)
	})
}

func TestExportICal(t *testing.T) {
	h := newTestHandlers(nil)

	rec := doRequest(h.ExportICal, http.MethodPost, "/api/v1/triggers/ical?summary=Standup", "",
		`{"type":1,"interval":30,"timeUnit":"MINUTES"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trigger.ics")

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Standup")
	assert.Contains(t, body, "FREQ=MINUTELY")
	assert.Contains(t, body, "INTERVAL=30")

	rec = doRequest(h.ExportICal, http.MethodPost, "/api/v1/triggers/ical", "", `{"type":1,"interval":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmitTrigger(t *testing.T) {
	t.Run("no broker", func(t *testing.T) {
		h := newTestHandlers(nil)
		rec := doRequest(h.SubmitTrigger, http.MethodPost, "/api/v1/triggers/submit", "", `{"type":1,"interval":1,"timeUnit":"DAYS"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "broker_unavailable", decodeError(t, rec).Code)
	})

	t.Run("invalid trigger is not published", func(t *testing.T) {
		publisher := &mockPublisher{}
		h := newTestHandlers(publisher)
		rec := doRequest(h.SubmitTrigger, http.MethodPost, "/api/v1/triggers/submit", "", `{"type":1,"interval":1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, publisher.published)
	})

	t.Run("published", func(t *testing.T) {
		publisher := &mockPublisher{}
		h := newTestHandlers(publisher)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/submit",
			bytes.NewBufferString(`{"type":1,"interval":1,"timeUnit":"DAYS"}`))
		ctx := context.WithValue(req.Context(), logging.RequestIDKey, "req-1")
		ctx = context.WithValue(ctx, logging.SubjectKey, "scheduler")
		rec := httptest.NewRecorder()
		h.SubmitTrigger(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusAccepted, rec.Code)

		var body struct {
			Type      string `json:"type"`
			MessageID string `json:"message_id"`
			Broker    string `json:"broker"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "INTERVAL", body.Type)
		assert.Equal(t, "mock", body.Broker)

		require.Len(t, publisher.published, 1)
		message := publisher.published[0]
		assert.Equal(t, body.MessageID, message.MessageID)
		assert.Equal(t, "req-1", message.Headers["request_id"])
		assert.Equal(t, "scheduler", message.Headers["subject"])
		assert.JSONEq(t, `{"type":1,"interval":1,"timeUnit":"DAYS"}`, string(message.Body))
	})

	t.Run("broker failure", func(t *testing.T) {
		h := newTestHandlers(&mockPublisher{publishErr: fmt.Errorf("connection reset")})
		rec := doRequest(h.SubmitTrigger, http.MethodPost, "/api/v1/triggers/submit", "", `{"type":1,"interval":1,"timeUnit":"DAYS"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeError(t, rec).Error)
	})
}

func TestExamples(t *testing.T) {
	h := newTestHandlers(nil)

	rec := doRequest(h.ListExamples, http.MethodGet, "/api/v1/triggers/examples", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all, len(examples.Names()))
	assert.Contains(t, all, examples.Interval)

	get := func(name string) *httptest.ResponseRecorder {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/triggers/examples/"+name, nil),
			map[string]string{"name": name})
		rec := httptest.NewRecorder()
		h.GetExample(rec, req)
		return rec
	}

	rec = get(examples.TimestampWithAlarmManager)
	require.Equal(t, http.StatusOK, rec.Code)
	var example map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&example))
	assert.EqualValues(t, testNow.Add(5*time.Second).UnixMilli(), example["timestamp"])

	rec = get("nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		publisher  brokers.Publisher
		wantStatus int
		wantBroker string
	}{
		{name: "no broker", wantStatus: http.StatusOK, wantBroker: "none"},
		{name: "healthy broker", publisher: &mockPublisher{}, wantStatus: http.StatusOK, wantBroker: "mock"},
		{
			name:       "unhealthy broker",
			publisher:  &mockPublisher{healthErr: fmt.Errorf("down")},
			wantStatus: http.StatusServiceUnavailable,
			wantBroker: "mock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(tt.publisher)
			rec := doRequest(h.HealthCheck, http.MethodGet, "/health", "", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBroker, body.Broker)
		})
	}
}
