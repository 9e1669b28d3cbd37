// Package validation wraps a go-playground/validator singleton and translates
// its errors into per-field messages of an apperr.Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/apperr"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ReservedUsername cannot be registered since it collides with /users/me.
const ReservedUsername = "me"

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json field names instead of Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return ValidUsername(fl.Field().String())
		})
	})
	return validate
}

// ValidUsername reports whether name is an acceptable username.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name) && !strings.EqualFold(name, ReservedUsername)
}

// ValidateStruct validates s and records every failing field into target.
// Only the first failure per field is kept. It returns false when anything failed.
func ValidateStruct(s interface{}, target *apperr.Error) bool {
	err := GetValidator().Struct(s)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		target.Add("non_field_errors", err.Error())
		return false
	}
	for _, fe := range fieldErrs {
		if target.Has(fe.Field()) {
			continue
		}
		target.Add(fe.Field(), message(fe))
	}
	return false
}

// Struct is ValidateStruct returning an error, nil when s is valid.
func Struct(s interface{}) error {
	verr := apperr.NewValidation()
	if ValidateStruct(s, verr) {
		return nil
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only; \"me\" is reserved."
	case "hexcolor":
		return "Enter a valid hex color."
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
