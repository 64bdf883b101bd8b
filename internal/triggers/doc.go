// Package triggers validates and normalizes notification trigger configurations.
//
// A trigger describes when a local notification fires. Three kinds exist:
//   - Timestamp: fire once at an epoch-millisecond instant, optionally repeating
//     hourly, daily or weekly, optionally through the exact-alarm scheduler.
//   - Interval: fire every N seconds, minutes, hours or days (15 minutes minimum).
//   - Calendar: fire at a calendar date and time, optionally repeating.
//
// Application code hands the validator a loosely-typed object, usually a
// map[string]interface{} decoded from JSON or YAML:
//
//	trigger, err := triggers.Validate(map[string]interface{}{
//		"type":     triggers.TriggerTypeInterval,
//		"interval": 30,
//		"timeUnit": "MINUTES",
//	})
//
// The result is one of *TimestampTrigger, *IntervalTrigger or *CalendarTrigger
// with every optional field filled in. Validation never touches shared state;
// the only input besides the object is the clock used for the "timestamp must
// be in the future" rule, which can be replaced with WithClock.
//
// Validating a normalized trigger again returns an equal trigger, so canonical
// values can be passed back through Validate (or ValidateJSON) freely.
//
// Errors are *errors.AppError values of type validation. Their Code is one of
// CodeTypeError, CodeRangeError, CodeSemanticError or CodeUnknownType and the
// "field" context entry names the offending field.
package triggers
