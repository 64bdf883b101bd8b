package triggers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"notify-triggers/internal/common/errors"
)

// ValidateJSON decodes a JSON document and validates it with the wall clock
func ValidateJSON(data []byte) (Trigger, error) {
	return defaultValidator.ValidateJSON(data)
}

// ValidateYAML decodes a YAML document and validates it with the wall clock
func ValidateYAML(data []byte) (Trigger, error) {
	return defaultValidator.ValidateYAML(data)
}

// ValidateJSON decodes a JSON document and validates the value it holds.
// Numbers are kept as json.Number so epoch milliseconds do not lose precision.
func (v *Validator) ValidateJSON(data []byte) (Trigger, error) {
	raw, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return v.Validate(raw)
}

// ValidateYAML decodes a YAML document and validates the value it holds
func (v *Validator) ValidateYAML(data []byte) (Trigger, error) {
	raw, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return v.Validate(raw)
}

// DecodeJSON decodes a single JSON value without validating it
func DecodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, decodeError("JSON", err)
	}
	if dec.More() {
		return nil, decodeError("JSON", fmt.Errorf("unexpected data after the first value"))
	}
	return raw, nil
}

// DecodeYAML decodes a single YAML document without validating it
func DecodeYAML(data []byte) (interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("YAML", err)
	}
	return raw, nil
}

// Decode picks the JSON or YAML decoder from the first non-space byte
func Decode(data []byte) (interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}

func decodeError(format string, cause error) *errors.AppError {
	return errors.ValidationError(fmt.Sprintf("invalid trigger %s: %v", format, cause)).
		WithCode(CodeDecodeError).
		WithContext("field", "trigger")
}

// Marshal encodes a normalized trigger as JSON
func Marshal(t Trigger) ([]byte, error) {
	if IsNilTrigger(t) {
		return nil, errors.InternalError("cannot marshal a nil trigger", nil)
	}
	return json.Marshal(t)
}
