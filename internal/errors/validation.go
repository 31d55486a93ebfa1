package errors

import (
	"fmt"
	"strings"
	"time"
)

// MetaValidationErrors is the meta key holding the per-field messages of a failed validation
const MetaValidationErrors = "validation_errors"

// ValidationError collects messages per field. Fields are reported in the order they
// were first added, so config errors read in declaration order.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
	order  []string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.order) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(v.order))
	for _, field := range v.order {
		parts = append(parts, field+": "+strings.Join(v.Fields[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AddFieldError adds a message for field
func (v *ValidationError) AddFieldError(field, message string) {
	if _, seen := v.Fields[field]; !seen {
		v.order = append(v.order, field)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// AddFieldErrorf adds a formatted message for field
func (v *ValidationError) AddFieldErrorf(field, format string, args ...interface{}) {
	v.AddFieldError(field, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any field failed
func (v *ValidationError) HasErrors() bool {
	return len(v.order) > 0
}

// ToError converts to an InvalidArgument error with the field messages in meta
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta(MetaValidationErrors, v.Fields)
}

// ValidationBuilder accumulates field errors for Config.Validate methods
type ValidationBuilder struct {
	err *ValidationError
}

// NewValidationBuilder creates a new validation builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{err: NewValidationError()}
}

// Field adds a message for field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.err.AddFieldError(field, message)
	return vb
}

// Fieldf adds a formatted message for field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...interface{}) *ValidationBuilder {
	vb.err.AddFieldErrorf(field, format, args...)
	return vb
}

// RequiredField marks a missing dependency or value
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField marks a value that is present but unusable
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// Build returns nil when every check passed
func (vb *ValidationBuilder) Build() error {
	if !vb.err.HasErrors() {
		return nil
	}
	return vb.err.ToError()
}

// ValidateRequired rejects blank strings
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange checks minValue <= value <= maxValue
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

// ValidateMin checks value >= minValue
func ValidateMin(field string, value, minValue int, vb *ValidationBuilder) {
	if value < minValue {
		vb.Fieldf(field, "must be at least %d", minValue)
	}
}

// ValidatePositive rejects zero and negative durations
func ValidatePositive(field string, d time.Duration, vb *ValidationBuilder) {
	if d <= 0 {
		vb.Fieldf(field, "must be positive, got %s", d)
	}
}

// ValidateEnum checks value is one of allowed
func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
}
