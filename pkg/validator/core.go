package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes a single failing field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is a collection of field errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Details groups messages by field.
func (ve ValidationErrors) Details() map[string][]string {
	if len(ve) == 0 {
		return nil
	}
	out := make(map[string][]string, len(ve))
	for _, err := range ve {
		out[err.Field] = append(out[err.Field], err.Message)
	}
	return out
}

// Rule is a single check paired with the error it reports.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply evaluates every rule and returns ValidationErrors, or nil if all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// When returns rules unchanged if cond holds, and rules that always pass otherwise.
// Used for optional fields that are validated only when present.
func When(cond bool, rules ...Rule) Rule {
	return Rule{
		Check: func() bool {
			if !cond {
				return true
			}
			for _, r := range rules {
				if !r.Check() {
					return false
				}
			}
			return true
		},
		Error: firstError(rules),
	}
}

func firstError(rules []Rule) ValidationError {
	for _, r := range rules {
		if !r.Check() {
			return r.Error
		}
	}
	return ValidationError{}
}

// ExtractValidationErrors returns the ValidationErrors wrapped in err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
