package triggers_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/triggers"
)

func TestValidateJSON(t *testing.T) {
	v := fixedValidator()

	tests := []struct {
		name          string
		body          string
		want          triggers.Trigger
		errorContains string
		errorCode     string
	}{
		{
			name: "timestamp keeps millisecond precision",
			body: fmt.Sprintf(`{"type":0,"timestamp":%d,"alarmManager":{"allowWhileIdle":true}}`, nowMillis+123),
			want: &triggers.TimestampTrigger{
				Type:            triggers.TriggerTypeTimestamp,
				Timestamp:       nowMillis + 123,
				RepeatFrequency: triggers.RepeatFrequencyNone,
				AlarmManager:    &triggers.AlarmManager{Type: triggers.AlarmTypeSetExactAndAllowWhileIdle},
			},
		},
		{
			name: "interval",
			body: `{"type":1,"interval":30,"timeUnit":"MINUTES"}`,
			want: &triggers.IntervalTrigger{Type: triggers.TriggerTypeInterval, Interval: 30, TimeUnit: triggers.TimeUnitMinutes},
		},
		{
			name: "null fields are absent",
			body: `{"type":1,"interval":1000,"timeUnit":null}`,
			want: &triggers.IntervalTrigger{Type: triggers.TriggerTypeInterval, Interval: 1000, TimeUnit: triggers.TimeUnitSeconds},
		},
		{
			name: "fractional interval",
			body: `{"type":1,"interval":15.5,"timeUnit":"MINUTES"}`,
			want: &triggers.IntervalTrigger{Type: triggers.TriggerTypeInterval, Interval: 15.5, TimeUnit: triggers.TimeUnitMinutes},
		},
		{
			name:          "array",
			body:          `[{"type":1}]`,
			errorContains: "'trigger' expected an object value.",
			errorCode:     triggers.CodeTypeError,
		},
		{
			name:          "malformed",
			body:          `{"type":`,
			errorContains: "invalid trigger JSON",
			errorCode:     triggers.CodeDecodeError,
		},
		{
			name:          "trailing data",
			body:          `{"type":1,"interval":900} {}`,
			errorContains: "unexpected data after the first value",
			errorCode:     triggers.CodeDecodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateJSON([]byte(tt.body))
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Equal(t, tt.errorCode, triggers.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateYAML(t *testing.T) {
	v := fixedValidator()

	got, err := v.ValidateYAML([]byte(`
type: CALENDAR
year: 2030
month: 2
day: 28
hour: 6
minute: 30
second: 0
repeats: true
`))
	require.NoError(t, err)
	assert.Equal(t, &triggers.CalendarTrigger{
		Type:    triggers.TriggerTypeCalendar,
		Year:    2030,
		Month:   2,
		Day:     28,
		Hour:    6,
		Minute:  30,
		Repeats: true,
	}, got)

	got, err = v.ValidateYAML([]byte("type: 0\ntimestamp: 1700000009000\nalarmManager:\n  type: SET\n"))
	require.NoError(t, err)
	assert.Equal(t, triggers.AlarmTypeSet, got.(*triggers.TimestampTrigger).AlarmManager.Type)

	_, err = v.ValidateYAML([]byte("type: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, triggers.CodeDecodeError, triggers.ErrorCode(err))
	assert.Equal(t, "trigger", triggers.ErrorField(err))
}

func TestDecode_PicksFormat(t *testing.T) {
	raw, err := triggers.Decode([]byte(`  {"type": 1, "interval": 20, "timeUnit": "MINUTES"}`))
	require.NoError(t, err)
	obj, ok := raw.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, json.Number("20"), obj["interval"])

	raw, err = triggers.Decode([]byte("type: 1\ninterval: 20\n"))
	require.NoError(t, err)
	obj, ok = raw.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 20, obj["interval"])
}

func TestMarshal(t *testing.T) {
	data, err := triggers.Marshal(&triggers.TimestampTrigger{
		Type:            triggers.TriggerTypeTimestamp,
		Timestamp:       nowMillis + 1,
		RepeatFrequency: triggers.RepeatFrequencyNone,
	})
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{"type":0,"timestamp":%d,"repeatFrequency":-1}`, nowMillis+1), string(data))

	var nilTrigger *triggers.CalendarTrigger
	_, err = triggers.Marshal(nilTrigger)
	assert.Error(t, err)
	assert.False(t, triggers.IsValidationError(err))
}

func TestErrorHelpers(t *testing.T) {
	_, err := fixedValidator().Validate(calendarInput(map[string]interface{}{"month": 13}))
	require.Error(t, err)

	assert.True(t, triggers.IsValidationError(err))
	assert.Equal(t, triggers.CodeRangeError, triggers.ErrorCode(err))
	assert.Equal(t, "month", triggers.ErrorField(err))

	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, triggers.IsValidationError(wrapped))
	assert.Equal(t, "month", triggers.ErrorField(wrapped))

	internal := errors.InternalError("boom", nil)
	assert.False(t, triggers.IsValidationError(internal))
	assert.Equal(t, "", triggers.ErrorCode(internal))
	assert.Equal(t, "", triggers.ErrorCode(nil))
	assert.Equal(t, "", triggers.ErrorField(nil))
}
