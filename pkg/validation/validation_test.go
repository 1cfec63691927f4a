package validation

import (
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@example"))
	assert.False(t, ValidateEmail("us er@example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword("123456"))
	assert.Equal(t, "password is required", PasswordError(""))
	assert.Equal(t, "password must be at least 6 characters", PasswordError("abc"))
	assert.Empty(t, PasswordError("secret1"))
}

func TestValidateName(t *testing.T) {
	assert.False(t, ValidateName(" a "))
	assert.True(t, ValidateName("Al"))
	assert.Equal(t, "name is required", NameError("   "))
	assert.Empty(t, NameError("Linh"))
}

func TestEmailError(t *testing.T) {
	assert.Equal(t, "email is required", EmailError(""))
	assert.Equal(t, "email is invalid", EmailError("nope"))
	assert.Empty(t, EmailError("user@example.com"))
}

func TestInline(t *testing.T) {
	require.NoError(t, Inline(map[string]string{"email": EmailError("user@example.com"), "password": ""}))

	err := Inline(map[string]string{
		"email":    EmailError("nope"),
		"password": PasswordError("abc"),
		"name":     NameError("Linh"),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]string{
		"email":    "email is invalid",
		"password": "password must be at least 6 characters",
	}, FieldErrors(err))
}

type signupForm struct {
	Email    string `json:"email" validate:"required,email_basic"`
	Name     string `json:"name" validate:"required,displayname"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp" validate:"omitempty,otp"`
}

func TestStructReportsFieldErrors(t *testing.T) {
	err := Struct(&signupForm{Email: "not-an-email", Name: "A", Password: "123", OTP: "12ab"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	fields := FieldErrors(err)
	require.NotNil(t, fields)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be at least 2 characters", fields["name"])
	assert.Equal(t, "must be at least 6", fields["password"])
	assert.Equal(t, "must be a 6 digit code", fields["otp"])
}

func TestStructAcceptsValidForm(t *testing.T) {
	err := Struct(&signupForm{Email: "user@example.com", Name: "Mai", Password: "secret1", OTP: "123456"})
	assert.NoError(t, err)
}
