package dto

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/islamipic/api/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
	_ = validate.RegisterValidation("category", validateCategory)

	// Report json field names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// password_strength requires at least one upper, one lower and one digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	var hasUpper, hasLower, hasNumber bool
	for _, ch := range fl.Field().String() {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsNumber(ch):
			hasNumber = true
		}
		if hasUpper && hasLower && hasNumber {
			return true
		}
	}
	return hasUpper && hasLower && hasNumber
}

func validateCategory(fl validator.FieldLevel) bool {
	return domain.IsValidCategory(fl.Field().String())
}

// check runs struct validation and converts the first failure into a domain
// error, so the transport layer reports the same shapes everywhere.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInvalidJSON(err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "min":
		return domain.ErrInvalidField(field, "too short (min "+fe.Param()+")")
	case "max":
		return domain.ErrInvalidField(field, "too long (max "+fe.Param()+")")
	case "password_strength":
		return domain.ErrInvalidField(field, "needs upper, lower and digit")
	case "category":
		return domain.ErrInvalidCategory(fe.Value().(string))
	default:
		return domain.ErrInvalidField(field, "failed "+fe.Tag())
	}
}
