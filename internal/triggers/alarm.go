package triggers

import (
	"notify-triggers/internal/common/errors"
)

// AlarmConfig is the alarmManager input of a timestamp trigger, which may be
// a boolean shorthand or an object. It is resolved to an *AlarmManager (or
// nil) before use.
type AlarmConfig interface {
	resolve() *AlarmManager
}

// AlarmDisabled is `false` or an absent alarmManager
type AlarmDisabled struct{}

// AlarmDefault is `alarmManager: true`
type AlarmDefault struct{}

// AlarmExplicit is an alarmManager object
type AlarmExplicit struct {
	AllowWhileIdle bool
	// Type overrides the alarm type derived from AllowWhileIdle when set
	Type *AlarmType
}

func (AlarmDisabled) resolve() *AlarmManager { return nil }

func (AlarmDefault) resolve() *AlarmManager {
	return &AlarmManager{Type: AlarmTypeSetExact}
}

func (a AlarmExplicit) resolve() *AlarmManager {
	out := &AlarmManager{Type: AlarmTypeSetExact}
	if a.AllowWhileIdle {
		out.Type = AlarmTypeSetExactAndAllowWhileIdle
	}
	if a.Type != nil {
		out.Type = *a.Type
	}
	return out
}

// ResolveAlarm turns an AlarmConfig into the alarm manager stored on a
// normalized timestamp trigger. A nil config is treated as disabled.
func ResolveAlarm(cfg AlarmConfig) *AlarmManager {
	if cfg == nil {
		return nil
	}
	return cfg.resolve()
}

// parseAlarmConfig reads the alarmManager property of a timestamp trigger
func parseAlarmConfig(obj object) (AlarmConfig, *errors.AppError) {
	raw, ok := property(obj, "alarmManager")
	if !ok {
		return AlarmDisabled{}, nil
	}

	if enabled, ok := asBool(raw); ok {
		if enabled {
			return AlarmDefault{}, nil
		}
		return AlarmDisabled{}, nil
	}

	am, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fieldError(CodeTypeError, "alarmManager",
			"'trigger.alarmManager' expected a boolean or object value.")
	}

	cfg := AlarmExplicit{}
	// A non-boolean allowWhileIdle is ignored rather than rejected
	if allow, ok := asBool(am["allowWhileIdle"]); ok {
		cfg.AllowWhileIdle = allow
	}

	if rawType, ok := property(am, "type"); ok {
		alarmType, ok := enumMember(rawType, alarmTypeNames)
		if !ok {
			return nil, fieldError(CodeRangeError, "alarmManager.type",
				"'trigger.alarmManager' 'alarmManager.type' expected a AlarmType value.")
		}
		cfg.Type = &alarmType
	}

	return cfg, nil
}
