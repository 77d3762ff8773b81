package service

import (
	"errors"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validationError converts validator output into an apperror.ValidationError
// describing the first failing field.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		field := first.Field()
		if field == "" {
			field = strings.ToLower(first.StructField())
		}
		if first.Param() != "" {
			return apperror.Invalid(field, "failed %s=%s validation", first.Tag(), first.Param())
		}
		return apperror.Invalid(field, "failed %s validation", first.Tag())
	}
	return apperror.Invalid("", "%s", err.Error())
}

func validateStruct(validate *validator.Validate, payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		return validationError(err)
	}
	return nil
}

func parseTimestamp(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperror.Invalid(field, "must be an RFC 3339 timestamp")
	}
	return parsed.UTC(), nil
}

var textPolicy = bluemonday.StrictPolicy()

// plainText strips markup from user supplied free text.
func plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(value)))
}

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return "***"
	}
	local := parts[0]
	domain := parts[1]
	if len(local) <= 2 {
		local = local[:1] + "***"
	} else {
		local = local[:1] + "***" + local[len(local)-1:]
	}
	return local + "@" + domain
}
