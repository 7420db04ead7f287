package config

import (
	"fmt"
	"strings"
)

// ConfigError describes one configuration problem with an actionable fix.
// Messages are lowercase.
//
//nolint:revive // ConfigError reads better than Error at call sites outside the package
type ConfigError struct {
	Category string // "missing" or "invalid"
	Field    string // dotted config path, e.g. "smileid.baseurl"
	Message  string
	Action   string
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 4)
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	for _, part := range []string{e.Field, e.Message, e.Action} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// NewMissingFieldError reports a required field with no value.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: "missing",
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to config.yaml", EnvVarName(field), field),
	}
}

// NewInvalidFieldError reports a field whose value is rejected.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
	}
	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}
	return err
}

// EnvVarName returns the environment variable that sets field.
func EnvVarName(field string) string {
	return strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}

// FieldErrors extracts every ConfigError joined or wrapped into err.
func FieldErrors(err error) []*ConfigError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ConfigError:
		return []*ConfigError{e}
	case interface{ Unwrap() []error }:
		var out []*ConfigError
		for _, inner := range e.Unwrap() {
			out = append(out, FieldErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return FieldErrors(e.Unwrap())
	default:
		return nil
	}
}
