// Package preview computes the upcoming fire times of a normalized trigger.
// The result is informational only; nothing is scheduled.
package preview

import (
	"fmt"
	"math"
	"time"

	"github.com/robfig/cron/v3"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/triggers"
)

// MaxCount caps the number of fire times returned by a single call
const MaxCount = 100

// calendarParser reads the yearly recurrence built for repeating calendar triggers
var calendarParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Next returns up to n fire times of t strictly after from. Calendar fields are
// read in loc; a nil loc means time.Local.
func Next(t triggers.Trigger, from time.Time, n int, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if n <= 0 {
		return []time.Time{}, nil
	}
	if n > MaxCount {
		n = MaxCount
	}
	if triggers.IsNilTrigger(t) {
		return nil, errors.ValidationError("cannot preview a nil trigger")
	}

	switch tt := t.(type) {
	case *triggers.TimestampTrigger:
		return timestampTimes(tt, from, n, loc), nil
	case *triggers.IntervalTrigger:
		return intervalTimes(tt, from, n, loc)
	case *triggers.CalendarTrigger:
		return calendarTimes(tt, from, n, loc)
	default:
		return nil, errors.ValidationError(fmt.Sprintf("cannot preview trigger of type %T", t))
	}
}

// RepeatStep returns the distance between two firings of a repeating
// timestamp trigger, or 0 when it does not repeat.
func RepeatStep(freq triggers.RepeatFrequency) time.Duration {
	switch freq {
	case triggers.RepeatFrequencyHourly:
		return time.Hour
	case triggers.RepeatFrequencyDaily:
		return 24 * time.Hour
	case triggers.RepeatFrequencyWeekly:
		return 7 * 24 * time.Hour
	}
	return 0
}

// UnitDuration returns the length of one interval unit
func UnitDuration(unit triggers.TimeUnit) time.Duration {
	switch unit {
	case triggers.TimeUnitMinutes:
		return time.Minute
	case triggers.TimeUnitHours:
		return time.Hour
	case triggers.TimeUnitDays:
		return 24 * time.Hour
	}
	return time.Second
}

func timestampTimes(t *triggers.TimestampTrigger, from time.Time, n int, loc *time.Location) []time.Time {
	first := time.UnixMilli(t.Timestamp).In(loc)
	step := RepeatStep(t.RepeatFrequency)

	if step == 0 {
		if first.After(from) {
			return []time.Time{first}
		}
		return []time.Time{}
	}

	if !first.After(from) {
		missed := from.Sub(first)/step + 1
		first = first.Add(missed * step)
	}

	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, first.Add(time.Duration(i)*step))
	}
	return out
}

// IntervalStep returns the distance between two firings of an interval
// trigger. Intervals that are not positive or do not fit in a time.Duration
// are range errors.
func IntervalStep(t *triggers.IntervalTrigger) (time.Duration, error) {
	step := t.Interval * float64(UnitDuration(t.TimeUnit))
	if math.IsNaN(step) || step < 1 {
		return 0, intervalError(fmt.Sprintf("'trigger.interval' must be positive, got %v", t.Interval))
	}
	if step >= math.MaxInt64 {
		return 0, intervalError(fmt.Sprintf("'trigger.interval' of %v %s is too long to schedule", t.Interval, t.TimeUnit))
	}
	return time.Duration(step), nil
}

func intervalError(msg string) error {
	return errors.ValidationError(msg).
		WithCode(triggers.CodeRangeError).
		WithContext("field", "interval")
}

func intervalTimes(t *triggers.IntervalTrigger, from time.Time, n int, loc *time.Location) ([]time.Time, error) {
	step, err := IntervalStep(t)
	if err != nil {
		return nil, err
	}

	start := from.In(loc)
	out := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		// Stop before the offset from start leaves the Duration range
		if step > time.Duration(math.MaxInt64/int64(i)) {
			break
		}
		out = append(out, start.Add(time.Duration(i)*step))
	}
	return out, nil
}

func calendarTimes(t *triggers.CalendarTrigger, from time.Time, n int, loc *time.Location) ([]time.Time, error) {
	at := time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, loc)

	if !t.Repeats {
		// Dates such as February 31 never occur
		if at.Month() != time.Month(t.Month) || int64(at.Day()) != t.Day {
			return []time.Time{}, nil
		}
		if at.After(from) {
			return []time.Time{at}, nil
		}
		return []time.Time{}, nil
	}

	schedule, err := calendarParser.Parse(CalendarSpec(t, loc))
	if err != nil {
		return nil, errors.InternalError("failed to build calendar recurrence", err)
	}

	// A repeating trigger never fires before its configured instant
	cursor := from
	if at.After(from) {
		cursor = at.Add(-time.Second)
	}

	out := make([]time.Time, 0, n)
	for len(out) < n {
		next := schedule.Next(cursor)
		if next.IsZero() {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

// CalendarSpec renders the yearly recurrence of a calendar trigger as a
// six-field cron expression pinned to loc
func CalendarSpec(t *triggers.CalendarTrigger, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d %d %d %d *",
		loc.String(), t.Second, t.Minute, t.Hour, t.Day, t.Month)
}
