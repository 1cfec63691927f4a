package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 6
	MinNameLength     = 2
	OTPLength         = 6
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "email_basic", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	mustRegister(v, "displayname", func(fl validator.FieldLevel) bool {
		return ValidateName(fl.Field().String())
	})
	mustRegister(v, "otp", func(fl validator.FieldLevel) bool {
		return otpPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates a tagged struct and returns a VALIDATION_ERROR whose details
// map each failing json field to a human message.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// ValidateEmail mirrors the simple local@domain.tld check used by the forms.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func ValidateName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}

// EmailError returns the inline message for an email field, or "" when valid.
func EmailError(email string) string {
	if email == "" {
		return "email is required"
	}
	if !ValidateEmail(email) {
		return "email is invalid"
	}
	return ""
}

func PasswordError(password string) string {
	if password == "" {
		return "password is required"
	}
	if !ValidatePassword(password) {
		return fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	return ""
}

func NameError(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if !ValidateName(name) {
		return fmt.Sprintf("name must be at least %d characters", MinNameLength)
	}
	return ""
}

// Inline folds per-field inline messages into a validation error, or nil when
// every message is empty.
func Inline(messages map[string]string) error {
	details := map[string]string{}
	for field, msg := range messages {
		if msg != "" {
			details[field] = msg
		}
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

// FieldErrors extracts the field -> message map from a validation error.
func FieldErrors(err error) map[string]string {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	details, _ := typed.Details().(map[string]string)
	return details
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email", "email_basic":
		return "must be a valid email"
	case "displayname":
		return fmt.Sprintf("must be at least %d characters", MinNameLength)
	case "otp":
		return fmt.Sprintf("must be a %d digit code", OTPLength)
	case "url":
		return "must be a valid url"
	}
	return "is invalid"
}
