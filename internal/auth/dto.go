package auth

import "github.com/angelmondragon/storefront/pkg/auth/session"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_basic"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is returned by login and OTP verification.
type LoginResponse struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refreshToken,omitempty"`
	User         *session.Profile `json:"user"`
}

// RegisterRequest starts an OTP registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email_basic"`
	Name     string `json:"name" validate:"required,displayname"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

// OTPResponse is returned when the backend sends a one-time code.
type OTPResponse struct {
	Message string `json:"message"`
	OTPSent bool   `json:"otpSent"`
}

// VerifyOTPRequest completes an OTP registration.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email_basic"`
	OTP   string `json:"otp" validate:"required,otp"`
}

// ForgotPasswordRequest asks the backend to send a reset code.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email_basic"`
}

// NewPasswordRequest resets a password with a previously sent code.
type NewPasswordRequest struct {
	Email       string `json:"email" validate:"required,email_basic"`
	OTP         string `json:"otp" validate:"required,otp"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ChangePasswordRequest updates the password of the signed-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}
