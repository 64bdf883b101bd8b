package triggers

import (
	"time"

	"notify-triggers/internal/common/validation"
)

// MinimumIntervalMinutes is the shortest repeat interval an interval trigger may use
const MinimumIntervalMinutes = 15

// Validator normalizes trigger configurations. The zero value is not usable;
// create one with NewValidator.
type Validator struct {
	now func() time.Time
}

// Option configures a Validator
type Option func(*Validator)

// WithClock replaces the clock used for the "timestamp must be in the future" rule
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator creates a validator using the wall clock unless overridden
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate normalizes raw with the wall clock. See (*Validator).Validate.
func Validate(raw interface{}) (Trigger, error) {
	return defaultValidator.Validate(raw)
}

// Validate checks raw and returns the canonical trigger it describes.
//
// raw must be a map[string]interface{} or an already-normalized Trigger. The
// "type" property selects the trigger kind; every other property is checked
// and defaulted by the kind's rules. The first failing check is returned.
func (v *Validator) Validate(raw interface{}) (Trigger, error) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, errNotObject()
	}

	kind, ok := triggerType(obj)
	if !ok {
		return nil, errUnknownType()
	}

	switch kind {
	case TriggerTypeTimestamp:
		return v.validateTimestamp(obj)
	case TriggerTypeInterval:
		return v.validateInterval(obj)
	case TriggerTypeCalendar:
		return v.validateCalendar(obj)
	default:
		return nil, errUnknownType()
	}
}

func triggerType(obj object) (TriggerType, bool) {
	raw, ok := property(obj, "type")
	if !ok {
		return 0, false
	}
	return enumMember(raw, triggerTypeNames)
}

func (v *Validator) validateTimestamp(obj object) (Trigger, error) {
	timestamp, err := number(obj, "timestamp")
	if err != nil {
		return nil, err
	}

	if timestamp <= v.now().UnixMilli() {
		return nil, fieldError(CodeSemanticError, "timestamp", "'trigger.timestamp' date must be in the future.")
	}

	out := &TimestampTrigger{
		Type:            TriggerTypeTimestamp,
		Timestamp:       timestamp,
		RepeatFrequency: RepeatFrequencyNone,
	}

	if raw, ok := property(obj, "repeatFrequency"); ok {
		freq, ok := enumMember(raw, repeatFrequencyNames)
		if !ok {
			return nil, errExpectedEnum("repeatFrequency", "RepeatFrequency")
		}
		out.RepeatFrequency = freq
	}

	alarm, err := parseAlarmConfig(obj)
	if err != nil {
		return nil, err
	}
	out.AlarmManager = ResolveAlarm(alarm)

	return out, nil
}

func (v *Validator) validateInterval(obj object) (Trigger, error) {
	interval, err := decimal(obj, "interval")
	if err != nil {
		return nil, err
	}

	out := &IntervalTrigger{
		Type:     TriggerTypeInterval,
		Interval: interval,
		TimeUnit: TimeUnitSeconds,
	}

	if raw, ok := property(obj, "timeUnit"); ok {
		unit, ok := timeUnitMember(raw)
		if !ok {
			return nil, errExpectedEnum("timeUnit", "TimeUnit")
		}
		out.TimeUnit = unit
	}

	if !IsMinimumInterval(out.Interval, out.TimeUnit) {
		return nil, fieldError(CodeSemanticError, "interval", "'trigger.interval' expected to be at least 15 minutes.")
	}

	return out, nil
}

// IsMinimumInterval reports whether interval in unit satisfies the minimum
// repeat interval. Any interval of at least one hour or one day passes.
func IsMinimumInterval(interval float64, unit TimeUnit) bool {
	switch unit {
	case TimeUnitSeconds:
		return interval/60 >= MinimumIntervalMinutes
	case TimeUnitMinutes:
		return interval >= MinimumIntervalMinutes
	case TimeUnitHours, TimeUnitDays:
		return interval >= 1
	}
	return true
}

type calendarField struct {
	name     string
	min, max int64
	bounded  bool
	dest     func(*CalendarTrigger) *int64
}

var calendarFields = []calendarField{
	{name: "year", dest: func(t *CalendarTrigger) *int64 { return &t.Year }},
	{name: "month", min: 1, max: 12, bounded: true, dest: func(t *CalendarTrigger) *int64 { return &t.Month }},
	{name: "day", min: 1, max: 31, bounded: true, dest: func(t *CalendarTrigger) *int64 { return &t.Day }},
	{name: "hour", min: 0, max: 23, bounded: true, dest: func(t *CalendarTrigger) *int64 { return &t.Hour }},
	{name: "minute", min: 0, max: 59, bounded: true, dest: func(t *CalendarTrigger) *int64 { return &t.Minute }},
	{name: "second", min: 0, max: 59, bounded: true, dest: func(t *CalendarTrigger) *int64 { return &t.Second }},
}

func (v *Validator) validateCalendar(obj object) (Trigger, error) {
	out := &CalendarTrigger{Type: TriggerTypeCalendar}

	// Every field is type checked before any range check runs
	for _, f := range calendarFields {
		n, err := number(obj, f.name)
		if err != nil {
			return nil, err
		}
		*f.dest(out) = n
	}

	for _, f := range calendarFields {
		if f.bounded && !validation.InRange(*f.dest(out), f.min, f.max) {
			return nil, errOutOfRange(f.name, f.min, f.max)
		}
	}

	if raw, ok := property(obj, "repeats"); ok {
		// Non-boolean values are coerced to false
		repeats, _ := asBool(raw)
		out.Repeats = repeats
	}

	return out, nil
}
