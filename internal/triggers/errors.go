package triggers

import (
	"fmt"

	"notify-triggers/internal/common/errors"
)

// Error codes attached to validation errors
const (
	// CodeTypeError marks a field holding a value of the wrong kind
	CodeTypeError = "type_error"
	// CodeRangeError marks an enum or numeric bound violation
	CodeRangeError = "range_error"
	// CodeSemanticError marks a well-typed value that breaks a trigger rule
	CodeSemanticError = "semantic_error"
	// CodeUnknownType marks an unrecognized trigger discriminant
	CodeUnknownType = "unknown_type"
	// CodeDecodeError marks a document that could not be decoded at all
	CodeDecodeError = "decode_error"
)

func fieldError(code, field, format string, args ...interface{}) *errors.AppError {
	return errors.ValidationError(fmt.Sprintf(format, args...)).
		WithCode(code).
		WithContext("field", field)
}

func errNotObject() *errors.AppError {
	return fieldError(CodeTypeError, "trigger", "'trigger' expected an object value.")
}

func errUnknownType() *errors.AppError {
	return fieldError(CodeUnknownType, "type", "Unknown trigger type")
}

func errExpectedNumber(field string) *errors.AppError {
	return fieldError(CodeTypeError, field, "'trigger.%s' expected a number value.", field)
}

func errExpectedWholeNumber(field string) *errors.AppError {
	return fieldError(CodeTypeError, field, "'trigger.%s' expected a whole number value.", field)
}

func errExpectedEnum(field, enum string) *errors.AppError {
	return fieldError(CodeRangeError, field, "'trigger.%s' expected a %s value.", field, enum)
}

func errOutOfRange(field string, min, max int64) *errors.AppError {
	return fieldError(CodeRangeError, field, "'trigger.%s' expected a value between %d and %d.", field, min, max)
}

// decimal reads a required numeric field of any finite value
func decimal(obj object, field string) (float64, *errors.AppError) {
	v, _ := property(obj, field)
	f, ok := asNumber(v)
	if !ok {
		return 0, errExpectedNumber(field)
	}
	return f, nil
}

// number reads a required field stored as an integer (epoch milliseconds and
// calendar components). Non-numbers and fractional numbers are both type
// errors.
func number(obj object, field string) (int64, *errors.AppError) {
	v, _ := property(obj, field)
	if _, ok := asNumber(v); !ok {
		return 0, errExpectedNumber(field)
	}
	n, ok := asWhole(v)
	if !ok {
		return 0, errExpectedWholeNumber(field)
	}
	return n, nil
}

// IsValidationError reports whether err was produced by trigger validation
func IsValidationError(err error) bool {
	return errors.IsType(err, errors.ErrTypeValidation)
}

// ErrorCode returns the validation code carried by err, or "" when err is not
// a trigger validation error.
func ErrorCode(err error) string {
	appErr, ok := errors.As(err)
	if !ok || appErr.Type != errors.ErrTypeValidation {
		return ""
	}
	return appErr.Code
}

// ErrorField returns the field named by a validation error, or "".
func ErrorField(err error) string {
	appErr, ok := errors.As(err)
	if !ok {
		return ""
	}
	field, _ := appErr.Context["field"].(string)
	return field
}
