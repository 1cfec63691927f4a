package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	authsvc "github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/sandbox"
	pkgAuth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// AccountStore is the account side of the sandbox state.
type AccountStore interface {
	Register(ctx context.Context, reg sandbox.Registration) (string, error)
	VerifyRegistration(ctx context.Context, email, code string) (session.Profile, error)
	Authenticate(ctx context.Context, email, password string) (session.Profile, error)
	StartPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// TokenIssuer mints the access token handed out on login and verification.
type TokenIssuer struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

func (t *TokenIssuer) issue(profile session.Profile) (*authsvc.LoginResponse, error) {
	token, err := pkgAuth.MintAccessToken(t.cfg, t.now(), pkgAuth.AccessTokenPayload{
		UserID: profile.ID,
		Email:  profile.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &authsvc.LoginResponse{
		Token:        token,
		RefreshToken: uuid.NewString(),
		User:         &profile,
	}, nil
}

func Login(accounts AccountStore, tokens *TokenIssuer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := accounts.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := tokens.issue(profile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Login successful", out)
	}
}

func RegisterWithOTP(accounts AccountStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := accounts.Register(r.Context(), sandbox.Registration{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logOTP(r.Context(), logg, req.Email, code)
		responses.WriteSuccess(w, "OTP sent to your email", authsvc.OTPResponse{
			Message: "OTP sent to your email",
			OTPSent: true,
		})
	}
}

func VerifyOTP(accounts AccountStore, tokens *TokenIssuer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.VerifyOTPRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := accounts.VerifyRegistration(r.Context(), req.Email, req.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := tokens.issue(profile)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Account verified", out)
	}
}

func ForgotPassword(accounts AccountStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := accounts.StartPasswordReset(r.Context(), req.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logOTP(r.Context(), logg, req.Email, code)
		responses.WriteSuccess(w, "Reset code sent to your email", authsvc.OTPResponse{
			Message: "Reset code sent to your email",
			OTPSent: true,
		})
	}
}

func NewPassword(accounts AccountStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.NewPasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := accounts.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Password updated", nil)
	}
}

func ChangePassword(accounts AccountStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		var req authsvc.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := accounts.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Password changed", nil)
	}
}

// logOTP stands in for the email the real backend would send.
func logOTP(ctx context.Context, logg *logger.Logger, email, code string) {
	if logg == nil {
		return
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"email": email, "otp": code}), "sandbox.otp.delivered")
}
