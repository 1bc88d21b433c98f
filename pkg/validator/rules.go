package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
	postcodeRegex    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{0,11}$`)
	processorIDRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// ValidEmail validates a bare RFC 5322 address without display name.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// ValidCountryCode validates an upper-case ISO 3166-1 alpha-2 code.
func ValidCountryCode(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return countryCodeRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: "must be a two-letter country code"},
	}
}

func ValidPostcode(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return postcodeRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: "must be a valid postcode"},
	}
}

// ValidProcessorID validates an identifier issued by the payment processor, such as
// "pm_1Hh1..." for payment methods. An empty prefix accepts any identifier.
func ValidProcessorID(field, value, prefix string) Rule {
	return Rule{
		Check: func() bool {
			return strings.HasPrefix(value, prefix) && len(value) > len(prefix) && processorIDRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: "must be a valid identifier"},
	}
}
