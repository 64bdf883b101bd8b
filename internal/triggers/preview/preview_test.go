package preview_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"notify-triggers/internal/triggers"
	"notify-triggers/internal/triggers/preview"
)

var from = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNext_Timestamp(t *testing.T) {
	tests := []struct {
		name    string
		trigger *triggers.TimestampTrigger
		count   int
		want    []time.Time
	}{
		{
			name: "one-off in the future",
			trigger: &triggers.TimestampTrigger{
				Timestamp:       from.Add(time.Minute).UnixMilli(),
				RepeatFrequency: triggers.RepeatFrequencyNone,
			},
			count: 3,
			want:  []time.Time{from.Add(time.Minute)},
		},
		{
			name: "one-off already fired",
			trigger: &triggers.TimestampTrigger{
				Timestamp:       from.Add(-time.Minute).UnixMilli(),
				RepeatFrequency: triggers.RepeatFrequencyNone,
			},
			count: 3,
			want:  []time.Time{},
		},
		{
			name: "hourly",
			trigger: &triggers.TimestampTrigger{
				Timestamp:       from.Add(5 * time.Second).UnixMilli(),
				RepeatFrequency: triggers.RepeatFrequencyHourly,
			},
			count: 3,
			want: []time.Time{
				from.Add(5 * time.Second),
				from.Add(time.Hour + 5*time.Second),
				from.Add(2*time.Hour + 5*time.Second),
			},
		},
		{
			name: "daily started in the past skips missed firings",
			trigger: &triggers.TimestampTrigger{
				Timestamp:       from.Add(-50 * time.Hour).UnixMilli(),
				RepeatFrequency: triggers.RepeatFrequencyDaily,
			},
			count: 2,
			want: []time.Time{
				from.Add(22 * time.Hour),
				from.Add(46 * time.Hour),
			},
		},
		{
			name: "weekly",
			trigger: &triggers.TimestampTrigger{
				Timestamp:       from.Add(time.Hour).UnixMilli(),
				RepeatFrequency: triggers.RepeatFrequencyWeekly,
			},
			count: 2,
			want: []time.Time{
				from.Add(time.Hour),
				from.Add(time.Hour + 7*24*time.Hour),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := preview.Next(tt.trigger, from, tt.count, time.UTC)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Equal(got[i]), "firing %d: want %s, got %s", i, tt.want[i], got[i])
			}
		})
	}
}

func TestNext_Interval(t *testing.T) {
	trigger := &triggers.IntervalTrigger{Interval: 20, TimeUnit: triggers.TimeUnitMinutes}

	got, err := preview.Next(trigger, from, 3, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		from.Add(20 * time.Minute),
		from.Add(40 * time.Minute),
		from.Add(60 * time.Minute),
	}, got)
}

func TestNext_IntervalFractional(t *testing.T) {
	trigger := &triggers.IntervalTrigger{Interval: 15.5, TimeUnit: triggers.TimeUnitMinutes}

	got, err := preview.Next(trigger, from, 2, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		from.Add(15*time.Minute + 30*time.Second),
		from.Add(31 * time.Minute),
	}, got)
}

func TestNext_IntervalLongSpans(t *testing.T) {
	tests := []struct {
		name      string
		interval  float64
		wantLen   int
		wantError bool
	}{
		{name: "step beyond duration range", interval: 150000, wantError: true},
		{name: "second step beyond duration range", interval: 100000, wantLen: 1},
		{name: "fits", interval: 365, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := &triggers.IntervalTrigger{Interval: tt.interval, TimeUnit: triggers.TimeUnitDays}

			got, err := preview.Next(trigger, from, 3, time.UTC)
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, triggers.CodeRangeError, triggers.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			for i, at := range got {
				assert.True(t, at.After(from), "firing %d is not after from", i)
				if i > 0 {
					assert.True(t, at.After(got[i-1]), "firing %d goes backwards", i)
				}
			}
		})
	}
}

func TestIntervalStep(t *testing.T) {
	step, err := preview.IntervalStep(&triggers.IntervalTrigger{Interval: 900.5, TimeUnit: triggers.TimeUnitSeconds})
	require.NoError(t, err)
	assert.Equal(t, 900*time.Second+500*time.Millisecond, step)

	_, err = preview.IntervalStep(&triggers.IntervalTrigger{Interval: 0, TimeUnit: triggers.TimeUnitHours})
	assert.Error(t, err)
}

func TestNext_CalendarOnce(t *testing.T) {
	future := &triggers.CalendarTrigger{Year: 2026, Month: 1, Day: 2, Hour: 8, Minute: 30}
	got, err := preview.Next(future, from, 5, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Date(2026, 1, 2, 8, 30, 0, 0, time.UTC)}, got)

	past := &triggers.CalendarTrigger{Year: 2021, Month: 8, Day: 1, Hour: 12}
	got, err = preview.Next(past, from, 5, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNext_CalendarRepeatsYearly(t *testing.T) {
	trigger := &triggers.CalendarTrigger{Year: 2021, Month: 8, Day: 1, Hour: 12, Repeats: true}

	got, err := preview.Next(trigger, from, 3, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, got[1].Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))
	assert.True(t, got[2].Equal(time.Date(2027, 8, 1, 12, 0, 0, 0, time.UTC)))
}

func TestNext_CalendarRepeatStartsAtConfiguredInstant(t *testing.T) {
	trigger := &triggers.CalendarTrigger{Year: 2027, Month: 3, Day: 4, Hour: 5, Minute: 6, Second: 7, Repeats: true}

	got, err := preview.Next(trigger, from, 1, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(time.Date(2027, 3, 4, 5, 6, 7, 0, time.UTC)))
}

func TestNext_CalendarImpossibleDate(t *testing.T) {
	trigger := &triggers.CalendarTrigger{Year: 2025, Month: 2, Day: 31, Repeats: true}

	got, err := preview.Next(trigger, from, 3, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)

	trigger.Repeats = false
	trigger.Year = 2030
	got, err = preview.Next(trigger, from, 3, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNext_Limits(t *testing.T) {
	trigger := &triggers.IntervalTrigger{Interval: 1, TimeUnit: triggers.TimeUnitHours}

	got, err := preview.Next(trigger, from, 0, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = preview.Next(trigger, from, preview.MaxCount+50, time.UTC)
	require.NoError(t, err)
	assert.Len(t, got, preview.MaxCount)
}

func TestNext_UnknownTrigger(t *testing.T) {
	_, err := preview.Next(nil, from, 1, time.UTC)
	assert.Error(t, err)

	var typedNil *triggers.TimestampTrigger
	_, err = preview.Next(typedNil, from, 1, time.UTC)
	assert.Error(t, err)
}

func TestCalendarSpec(t *testing.T) {
	trigger := &triggers.CalendarTrigger{Month: 12, Day: 24, Hour: 18, Minute: 30, Second: 15}
	assert.Equal(t, "CRON_TZ=UTC 15 30 18 24 12 *", preview.CalendarSpec(trigger, time.UTC))
}
