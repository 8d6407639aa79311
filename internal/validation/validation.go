// Package validation checks user input before it is sent to the backend:
// email shape, password length, username charset and GPA range, plus
// struct-level validation driven by `validate` tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 128
	UsernameMinLength = 3
	UsernameMaxLength = 50
	GPAMin            = 0.0
	GPAMax            = 4.0
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= UsernameMinLength && len(s) <= UsernameMaxLength && usernamePattern.MatchString(s)
	})

	return v
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every rejected field of one validation call.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// Fields returns field names mapped to their messages.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field] = fe.Message
	}
	return fields
}

// Struct validates s using its `validate` tags. Field names in the result
// follow the `json` tags.
func Struct(s any) error {
	return wrap("", validate.Struct(s))
}

// Email reports whether s looks like an email address.
func Email(s string) error {
	return wrap("email", validate.Var(strings.TrimSpace(s), "required,email"))
}

// Password checks the password length policy.
func Password(s string) error {
	return wrap("password", validate.Var(s, fmt.Sprintf("required,min=%d,max=%d", PasswordMinLength, PasswordMaxLength)))
}

// Username checks length and allowed characters (letters, digits, '_' and '-').
func Username(s string) error {
	return wrap("username", validate.Var(s, "required,username"))
}

// GPA checks that v lies within the 0.0–4.0 scale.
func GPA(v float64) error {
	return wrap("gpa", validate.Var(v, fmt.Sprintf("gte=%.1f,lte=%.1f", GPAMin, GPAMax)))
}

func wrap(field string, err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		name := fe.Field()
		if field != "" {
			name = field
		}
		out.Errors = append(out.Errors, FieldError{Field: name, Message: msgForTag(fe)})
	}
	return out
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return fmt.Sprintf("must be %d-%d letters, numbers, underscores or hyphens", UsernameMinLength, UsernameMaxLength)
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
