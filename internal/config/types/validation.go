// Package types holds types shared by the configuration sections.
package types

import "fmt"

// ValidationError represents an error in configuration validation
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: field %q with value %v: %s", e.Field, e.Value, e.Reason)
}

// Required builds a ValidationError for a field that must be set.
func Required(field string, value any, because string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: "required when " + because}
}
