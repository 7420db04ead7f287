package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf key so errors name config paths.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section and returns all problems joined as *ConfigError values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fromFieldError(fe))
		}
	}

	retry := cfg.SmileID.Retry
	if retry.MaxDelay > 0 && retry.MaxDelay < retry.Delay {
		errs = append(errs, NewInvalidFieldError("smileid.retry.maxdelay",
			fmt.Sprintf("%s is below smileid.retry.delay %s", retry.MaxDelay, retry.Delay), nil))
	}

	obs := cfg.Observability
	obs.ApplyDefaults()
	if err := obs.Validate(); err != nil {
		errs = append(errs, NewInvalidFieldError("observability", err.Error(), nil))
	}

	return errors.Join(errs...)
}

func fromFieldError(fe validator.FieldError) *ConfigError {
	_, field, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	case "http_url":
		return NewInvalidFieldError(field, fmt.Sprintf("%q is not an http(s) URL", fmt.Sprint(fe.Value())), nil)
	case "gt":
		return NewInvalidFieldError(field, "must be greater than "+fe.Param(), nil)
	case "gte", "min":
		return NewInvalidFieldError(field, "must be at least "+fe.Param(), nil)
	case "max":
		return NewInvalidFieldError(field, "must be at most "+fe.Param(), nil)
	case "startswith":
		return NewInvalidFieldError(field, fmt.Sprintf("must start with %q", fe.Param()), nil)
	default:
		return NewInvalidFieldError(field, fmt.Sprintf("failed %s validation", fe.Tag()), nil)
	}
}
