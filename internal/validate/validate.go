package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// slugPattern matches lowercase alphanumeric segments joined by single
// hyphens, e.g. "bio-101".
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validator wraps the go-playground validator with this module's
// custom rules.
type Validator struct {
	validate *validator.Validate
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors is the error returned for any rejected input. It is
// recoverable: the caller fixes the named fields and retries.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, e := range v {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

// New creates a Validator with the slug rule registered and field
// names taken from json tags.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		panic(fmt.Sprintf("registering slug validation: %v", err))
	}

	return &Validator{validate: v}
}

// Struct validates a struct and converts any failures into
// ValidationErrors. A non-struct value yields the validator's own
// error unchanged.
func (v *Validator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range ferrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: msgForTag(fe),
		})
	}
	return out
}

// ValidSlug reports whether s is an acceptable slug on its own,
// without going through struct validation.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= 100 && slugPattern.MatchString(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "slug":
		return fmt.Sprintf("%s must contain only lowercase letters, numbers, and hyphens", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
