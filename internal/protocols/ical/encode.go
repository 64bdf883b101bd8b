// Package ical exports normalized triggers as iCalendar documents so they can
// be imported into calendar clients or handed to CalDAV servers.
package ical

import (
	"bytes"
	"fmt"
	"math"
	"time"

	ics "github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/triggers"
	"notify-triggers/internal/triggers/preview"
)

const (
	// ProductID identifies documents produced by this package
	ProductID = "-//notify-triggers//Trigger Export//EN"

	// PropAlarmType carries the resolved alarm type of a timestamp trigger
	PropAlarmType = "X-TRIGGER-ALARM-TYPE"
	// PropTriggerType carries the trigger discriminant
	PropTriggerType = "X-TRIGGER-TYPE"

	// ContentType is the MIME type of an encoded document
	ContentType = "text/calendar; charset=utf-8"
)

// Options controls how a trigger is rendered
type Options struct {
	// Summary is the event title. Defaults to a description of the trigger.
	Summary string
	// UID is the event UID. Defaults to a random UUID.
	UID string
	// Start anchors interval triggers, which have no start of their own.
	// Defaults to Now.
	Start time.Time
	// Location is used to read calendar trigger fields. Defaults to time.Local.
	Location *time.Location
	// Now stamps the event. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults(t triggers.Trigger) Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.UID == "" {
		o.UID = uuid.NewString()
	}
	if o.Start.IsZero() {
		o.Start = o.Now()
	}
	if o.Summary == "" {
		o.Summary = fmt.Sprintf("%s trigger", t.Kind())
	}
	return o
}

// Build renders t as a calendar holding a single VEVENT
func Build(t triggers.Trigger, opts Options) (*ics.Calendar, error) {
	if triggers.IsNilTrigger(t) {
		return nil, errors.ValidationError("cannot export a nil trigger")
	}
	opts = opts.withDefaults(t)

	start, rule, err := schedule(t, opts)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, ProductID)

	event := ics.NewEvent()
	event.Props.SetText(ics.PropUID, opts.UID)
	event.Props.SetText(ics.PropSummary, opts.Summary)
	event.Props.SetDateTime(ics.PropDateTimeStamp, opts.Now().UTC())
	event.Props.SetDateTime(ics.PropDateTimeStart, start.UTC())
	event.Props.SetText(PropTriggerType, t.Kind().String())

	if rule != nil {
		event.Props.SetRecurrenceRule(rule)
	}

	if ts, ok := t.(*triggers.TimestampTrigger); ok && ts.AlarmManager != nil {
		event.Props.SetText(PropAlarmType, ts.AlarmManager.Type.String())
	}

	cal.Children = append(cal.Children, event.Component)
	return cal, nil
}

// Encode renders t as an iCalendar document
func Encode(t triggers.Trigger, opts Options) ([]byte, error) {
	cal, err := Build(t, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ics.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.InternalError("failed to encode iCalendar document", err)
	}
	return buf.Bytes(), nil
}

// schedule returns the first occurrence of t and, for repeating triggers, the
// recurrence rule that follows it
func schedule(t triggers.Trigger, opts Options) (time.Time, *rrule.ROption, error) {
	switch tt := t.(type) {
	case *triggers.TimestampTrigger:
		start := time.UnixMilli(tt.Timestamp)
		freq, ok := timestampFrequency(tt.RepeatFrequency)
		if !ok {
			return start, nil, nil
		}
		return start, &rrule.ROption{Freq: freq, Interval: 1}, nil

	case *triggers.IntervalTrigger:
		step, err := preview.IntervalStep(tt)
		if err != nil {
			return time.Time{}, nil, err
		}
		rule, err := intervalRule(tt, step)
		if err != nil {
			return time.Time{}, nil, err
		}
		return opts.Start.Add(step), rule, nil

	case *triggers.CalendarTrigger:
		start := time.Date(int(tt.Year), time.Month(tt.Month), int(tt.Day),
			int(tt.Hour), int(tt.Minute), int(tt.Second), 0, opts.Location)
		if !tt.Repeats {
			return start, nil, nil
		}
		return start, &rrule.ROption{Freq: rrule.YEARLY, Interval: 1}, nil
	}

	return time.Time{}, nil, errors.ValidationError(fmt.Sprintf("cannot export trigger of type %T", t))
}

func timestampFrequency(freq triggers.RepeatFrequency) (rrule.Frequency, bool) {
	switch freq {
	case triggers.RepeatFrequencyHourly:
		return rrule.HOURLY, true
	case triggers.RepeatFrequencyDaily:
		return rrule.DAILY, true
	case triggers.RepeatFrequencyWeekly:
		return rrule.WEEKLY, true
	}
	return 0, false
}

// intervalRule expresses an interval as an RRULE. Whole intervals keep their
// unit; fractional ones are counted in seconds, which must then be whole.
func intervalRule(t *triggers.IntervalTrigger, step time.Duration) (*rrule.ROption, error) {
	if t.Interval == math.Trunc(t.Interval) {
		return &rrule.ROption{Freq: intervalFrequency(t.TimeUnit), Interval: int(t.Interval)}, nil
	}
	if step%time.Second != 0 {
		return nil, errors.ValidationError(fmt.Sprintf("cannot express an interval of %v %s as a recurrence rule", t.Interval, t.TimeUnit)).
			WithCode(triggers.CodeRangeError).
			WithContext("field", "interval")
	}
	return &rrule.ROption{Freq: rrule.SECONDLY, Interval: int(step / time.Second)}, nil
}

func intervalFrequency(unit triggers.TimeUnit) rrule.Frequency {
	switch unit {
	case triggers.TimeUnitMinutes:
		return rrule.MINUTELY
	case triggers.TimeUnitHours:
		return rrule.HOURLY
	case triggers.TimeUnitDays:
		return rrule.DAILY
	}
	return rrule.SECONDLY
}
