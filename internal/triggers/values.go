package triggers

import (
	"encoding/json"
	"math"
	"reflect"
)

// object is the loosely-typed shape every trigger arrives in
type object = map[string]interface{}

// property returns obj[key]. A nil value counts as absent, so JSON null and a
// missing key behave the same.
func property(obj object, key string) (interface{}, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// asObject reports whether v is an object. Typed triggers are converted to
// their map form so normalized values can be validated again.
func asObject(v interface{}) (object, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		if o == nil {
			return nil, false
		}
		return o, true
	case Trigger:
		if IsNilTrigger(o) {
			return nil, false
		}
		return o.ToMap(), true
	default:
		return nil, false
	}
}

// IsNilTrigger reports whether t is nil or a typed nil trigger pointer
func IsNilTrigger(t Trigger) bool {
	switch tt := t.(type) {
	case nil:
		return true
	case *TimestampTrigger:
		return tt == nil
	case *IntervalTrigger:
		return tt == nil
	case *CalendarTrigger:
		return tt == nil
	}
	return false
}

// scalar unwraps named integer, float, string and bool types to their
// built-in kind, so typed constants such as TriggerTypeInterval or
// TimeUnitMinutes read the same as the literals they stand for.
func scalar(v interface{}) interface{} {
	switch v.(type) {
	case nil, json.Number:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// asNumber reports whether v is a finite number. Booleans and numeric strings
// are not numbers.
func asNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := scalar(v).(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asWhole reports whether v is a number without a fractional part that fits
// in an int64. Integer kinds are converted directly so large epoch values keep
// their precision.
func asWhole(v interface{}) (int64, bool) {
	v = scalar(v)
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}

	f, ok := asNumber(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func asBool(v interface{}) (bool, bool) {
	b, ok := scalar(v).(bool)
	return b, ok
}

// asString reports whether v is a string. json.Number is a number, not a string.
func asString(v interface{}) (string, bool) {
	s, ok := scalar(v).(string)
	if _, isNumber := v.(json.Number); isNumber {
		return "", false
	}
	return s, ok
}

// enumMember resolves v against a closed set of integer enum values. Whole
// numbers are matched by value and strings by upper-case name.
func enumMember[T ~int](v interface{}, names map[T]string) (T, bool) {
	if s, ok := asString(v); ok {
		return lookupName(names, s)
	}
	n, ok := asWhole(v)
	if !ok {
		return 0, false
	}
	candidate := T(n)
	if int64(candidate) != n {
		return 0, false
	}
	if _, ok := names[candidate]; !ok {
		return 0, false
	}
	return candidate, true
}

// timeUnitMember resolves v against the TimeUnit set. Only the exact
// upper-case spelling is a member.
func timeUnitMember(v interface{}) (TimeUnit, bool) {
	s, ok := asString(v)
	if !ok {
		return "", false
	}
	unit := TimeUnit(s)
	return unit, unit.Valid()
}
