package triggers

import (
	"fmt"
	"strings"
)

// TriggerType is the discriminant of a trigger
type TriggerType int

const (
	TriggerTypeTimestamp TriggerType = 0
	TriggerTypeInterval  TriggerType = 1
	TriggerTypeCalendar  TriggerType = 2
)

var triggerTypeNames = map[TriggerType]string{
	TriggerTypeTimestamp: "TIMESTAMP",
	TriggerTypeInterval:  "INTERVAL",
	TriggerTypeCalendar:  "CALENDAR",
}

func (t TriggerType) String() string {
	if name, ok := triggerTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TriggerType(%d)", int(t))
}

// Valid reports whether t is one of the defined trigger types
func (t TriggerType) Valid() bool {
	_, ok := triggerTypeNames[t]
	return ok
}

// TimeUnit is the unit of an interval trigger
type TimeUnit string

const (
	TimeUnitSeconds TimeUnit = "SECONDS"
	TimeUnitMinutes TimeUnit = "MINUTES"
	TimeUnitHours   TimeUnit = "HOURS"
	TimeUnitDays    TimeUnit = "DAYS"
)

// TimeUnits lists every valid time unit
var TimeUnits = []TimeUnit{TimeUnitSeconds, TimeUnitMinutes, TimeUnitHours, TimeUnitDays}

// Valid reports whether u is one of the defined time units
func (u TimeUnit) Valid() bool {
	for _, unit := range TimeUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// RepeatFrequency is the repeat cadence of a timestamp trigger
type RepeatFrequency int

const (
	RepeatFrequencyNone   RepeatFrequency = -1
	RepeatFrequencyHourly RepeatFrequency = 0
	RepeatFrequencyDaily  RepeatFrequency = 1
	RepeatFrequencyWeekly RepeatFrequency = 2
)

var repeatFrequencyNames = map[RepeatFrequency]string{
	RepeatFrequencyNone:   "NONE",
	RepeatFrequencyHourly: "HOURLY",
	RepeatFrequencyDaily:  "DAILY",
	RepeatFrequencyWeekly: "WEEKLY",
}

func (f RepeatFrequency) String() string {
	if name, ok := repeatFrequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("RepeatFrequency(%d)", int(f))
}

// Valid reports whether f is one of the defined repeat frequencies
func (f RepeatFrequency) Valid() bool {
	_, ok := repeatFrequencyNames[f]
	return ok
}

// AlarmType selects the platform alarm API used for a timestamp trigger
type AlarmType int

const (
	AlarmTypeSet                       AlarmType = 0
	AlarmTypeSetAndAllowWhileIdle      AlarmType = 1
	AlarmTypeSetExact                  AlarmType = 2
	AlarmTypeSetExactAndAllowWhileIdle AlarmType = 3
	AlarmTypeSetAlarmClock             AlarmType = 4
)

var alarmTypeNames = map[AlarmType]string{
	AlarmTypeSet:                       "SET",
	AlarmTypeSetAndAllowWhileIdle:      "SET_AND_ALLOW_WHILE_IDLE",
	AlarmTypeSetExact:                  "SET_EXACT",
	AlarmTypeSetExactAndAllowWhileIdle: "SET_EXACT_AND_ALLOW_WHILE_IDLE",
	AlarmTypeSetAlarmClock:             "SET_ALARM_CLOCK",
}

func (a AlarmType) String() string {
	if name, ok := alarmTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AlarmType(%d)", int(a))
}

// Valid reports whether a is one of the defined alarm types
func (a AlarmType) Valid() bool {
	_, ok := alarmTypeNames[a]
	return ok
}

// lookupName resolves an upper-case enum name to its value
func lookupName[T comparable](names map[T]string, name string) (T, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for value, n := range names {
		if n == name {
			return value, true
		}
	}
	var zero T
	return zero, false
}

// Trigger is a normalized trigger. The concrete types are *TimestampTrigger,
// *IntervalTrigger and *CalendarTrigger.
type Trigger interface {
	// Kind returns the trigger discriminant
	Kind() TriggerType
	// ToMap returns the loosely-typed form accepted by Validate
	ToMap() map[string]interface{}
}

// AlarmManager is the resolved exact-alarm configuration of a timestamp trigger
type AlarmManager struct {
	Type AlarmType `json:"type" yaml:"type"`
}

// TimestampTrigger fires at Timestamp (epoch milliseconds)
type TimestampTrigger struct {
	Type            TriggerType     `json:"type" yaml:"type"`
	Timestamp       int64           `json:"timestamp" yaml:"timestamp"`
	RepeatFrequency RepeatFrequency `json:"repeatFrequency" yaml:"repeatFrequency"`
	AlarmManager    *AlarmManager   `json:"alarmManager,omitempty" yaml:"alarmManager,omitempty"`
}

// Kind implements Trigger
func (t *TimestampTrigger) Kind() TriggerType { return TriggerTypeTimestamp }

// ToMap implements Trigger
func (t *TimestampTrigger) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"type":            int(TriggerTypeTimestamp),
		"timestamp":       t.Timestamp,
		"repeatFrequency": int(t.RepeatFrequency),
	}
	if t.AlarmManager != nil {
		m["alarmManager"] = map[string]interface{}{
			"type": int(t.AlarmManager.Type),
		}
	}
	return m
}

// IntervalTrigger fires every Interval TimeUnits
type IntervalTrigger struct {
	Type     TriggerType `json:"type" yaml:"type"`
	Interval float64     `json:"interval" yaml:"interval"`
	TimeUnit TimeUnit    `json:"timeUnit" yaml:"timeUnit"`
}

// Kind implements Trigger
func (t *IntervalTrigger) Kind() TriggerType { return TriggerTypeInterval }

// ToMap implements Trigger
func (t *IntervalTrigger) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type":     int(TriggerTypeInterval),
		"interval": t.Interval,
		"timeUnit": string(t.TimeUnit),
	}
}

// CalendarTrigger fires at a calendar date and time
type CalendarTrigger struct {
	Type    TriggerType `json:"type" yaml:"type"`
	Year    int64       `json:"year" yaml:"year"`
	Month   int64       `json:"month" yaml:"month"`
	Day     int64       `json:"day" yaml:"day"`
	Hour    int64       `json:"hour" yaml:"hour"`
	Minute  int64       `json:"minute" yaml:"minute"`
	Second  int64       `json:"second" yaml:"second"`
	Repeats bool        `json:"repeats" yaml:"repeats"`
}

// Kind implements Trigger
func (t *CalendarTrigger) Kind() TriggerType { return TriggerTypeCalendar }

// ToMap implements Trigger
func (t *CalendarTrigger) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"type":    int(TriggerTypeCalendar),
		"year":    t.Year,
		"month":   t.Month,
		"day":     t.Day,
		"hour":    t.Hour,
		"minute":  t.Minute,
		"second":  t.Second,
		"repeats": t.Repeats,
	}
}
