// Package validation checks candidate records before they reach the
// store and turns validator failures into one readable message.
//
// Every mutation in this application validates the same way. Rather
// than repeating the validator setup and the error formatting in each
// operation, we centralise them here.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared: a *validator.Validate caches struct metadata and
// is safe for concurrent use once the custom tags are registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("acadmail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("nodelim", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), ";\r\n")
	})
	return v
}

// ValidEmail reports whether email has the local@domain.tld shape: at
// least one character before '@', a '.' after it that is not the very
// next character, and at least one character after the final '.'.
//
// This is looser than RFC 5322 (the validator's own
// "email" tag) so addresses already stored keep passing.
func ValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 {
		return false
	}
	return strings.LastIndexByte(domain, '.') < len(domain)-1
}

// Check runs the struct-tag rules on v. It returns nil when v is valid,
// or an error whose text lists every failing field.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		// InvalidValidationError: v was not a struct.
		return err
	}
	return errors.New(Message(errs))
}

// Message converts a slice of validator.FieldError values into a single
// human-readable sentence joined with ", ".
//
// Example output:
//
//	field Name is required, field Email must be a valid email address
func Message(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "acadmail", "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "nodelim":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not contain ';' or line breaks", e.Field()))
		case "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(errMessages, ", ")
}
