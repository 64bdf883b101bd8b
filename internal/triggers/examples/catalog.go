// Package examples provides ready-made trigger configurations in the loose
// form application code supplies them, for demos, docs and smoke tests.
package examples

import (
	"sort"
	"time"

	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/triggers"
)

const (
	Timestamp                          = "timestamp"
	TimestampWithAlarmManager          = "timestampWithAlarmManager"
	TimestampWithAlarmManagerRepeating = "timestampWithAlarmManagerRepeating"
	Interval                           = "interval"
	Calendar                           = "calendar"
)

// timestampLead is how far in the future catalog timestamps are placed
const timestampLead = 5 * time.Second

// intervalSeconds is the shortest interval the validator accepts in seconds
const intervalSeconds = triggers.MinimumIntervalMinutes * 60

// Factory builds a raw trigger configuration relative to now
type Factory func(now time.Time) map[string]interface{}

var factories = map[string]Factory{
	Timestamp: func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"type":      triggers.TriggerTypeTimestamp,
			"timestamp": futureMillis(now),
		}
	},
	TimestampWithAlarmManager: func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"type":      triggers.TriggerTypeTimestamp,
			"timestamp": futureMillis(now),
			"alarmManager": map[string]interface{}{
				"allowWhileIdle": true,
			},
		}
	},
	TimestampWithAlarmManagerRepeating: func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"type":            triggers.TriggerTypeTimestamp,
			"timestamp":       futureMillis(now),
			"repeatFrequency": triggers.RepeatFrequencyHourly,
			"alarmManager": map[string]interface{}{
				"allowWhileIdle": true,
			},
		}
	},
	Interval: func(time.Time) map[string]interface{} {
		return map[string]interface{}{
			"type":     triggers.TriggerTypeInterval,
			"interval": intervalSeconds,
			"timeUnit": triggers.TimeUnitSeconds,
		}
	},
	Calendar: func(time.Time) map[string]interface{} {
		return map[string]interface{}{
			"type":   triggers.TriggerTypeCalendar,
			"year":   2021,
			"month":  8,
			"day":    1,
			"hour":   12,
			"minute": 0,
			"second": 0,
		}
	},
}

func futureMillis(now time.Time) int64 {
	return now.Add(timestampLead).UnixMilli()
}

// Catalog hands out example configurations built from its clock
type Catalog struct {
	now func() time.Time
}

// NewCatalog creates a catalog. A nil clock means time.Now.
func NewCatalog(now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{now: now}
}

var defaultCatalog = NewCatalog(nil)

// Names returns the example names in sorted order
func Names() []string {
	return defaultCatalog.Names()
}

// Get builds the named example with the wall clock
func Get(name string) (map[string]interface{}, error) {
	return defaultCatalog.Get(name)
}

// Names returns the example names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds the named example. Each call returns a fresh map.
func (c *Catalog) Get(name string) (map[string]interface{}, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, errors.NotFoundError("example trigger").WithContext("name", name)
	}
	return factory(c.now()), nil
}

// All builds every example keyed by name
func (c *Catalog) All() map[string]map[string]interface{} {
	now := c.now()
	out := make(map[string]map[string]interface{}, len(factories))
	for name, factory := range factories {
		out[name] = factory(now)
	}
	return out
}
