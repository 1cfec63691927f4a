package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Service defines the account flows of the login, register and password screens.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RegisterWithOTP(ctx context.Context, req RegisterRequest) (*OTPResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*OTPResponse, error)
	NewPassword(ctx context.Context, req NewPasswordRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	Logout(ctx context.Context) error
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

type sessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
}

type service struct {
	api      requester
	sessions sessionStore
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	API      requester
	Sessions sessionStore
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{api: params.API, sessions: params.Sessions}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth.login", "/User/Login", req, "Login failed")
}

func (s *service) RegisterWithOTP(ctx context.Context, req RegisterRequest) (*OTPResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.requestOTP(ctx, "auth.register", "/User/registerwithotp", req, "Registration failed")
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth.verify_otp", "/User/verifyotp", req, "OTP verification failed")
}

func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*OTPResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.requestOTP(ctx, "auth.forgot_password", "/User/forgotpassword", req, "Forgot password request failed")
}

func (s *service) NewPassword(ctx context.Context, req NewPasswordRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validation.Struct(req); err != nil {
		return err
	}
	_, err := s.api.Do(ctx, apiclient.Request{
		Name:   "auth.new_password",
		Method: http.MethodPost,
		Path:   "/User/newPass",
		Body:   req,
	}, nil)
	return err
}

func (s *service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	_, err := s.api.Do(ctx, apiclient.Request{
		Name:   "auth.change_password",
		Method: http.MethodPost,
		Path:   "/User/ChangePassword",
		Body:   req,
		Auth:   true,
	}, nil)
	return err
}

func (s *service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

func (s *service) authenticate(ctx context.Context, name, path string, body any, fallback string) (*LoginResponse, error) {
	var out LoginResponse
	resp, err := s.api.Do(ctx, apiclient.Request{
		Name:   name,
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !resp.Envelope.HasData() || strings.TrimSpace(out.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBusiness, messageOr(resp.Envelope.Message, fallback))
	}

	if err := s.sessions.Save(ctx, session.Session{
		Token:        out.Token,
		RefreshToken: out.RefreshToken,
		User:         out.User,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}
	return &out, nil
}

func (s *service) requestOTP(ctx context.Context, name, path string, body any, fallback string) (*OTPResponse, error) {
	var out OTPResponse
	resp, err := s.api.Do(ctx, apiclient.Request{
		Name:   name,
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !resp.Envelope.HasData() {
		return nil, pkgerrors.New(pkgerrors.CodeBusiness, messageOr(resp.Envelope.Message, fallback))
	}
	if out.Message == "" {
		out.Message = resp.Envelope.Message
	}
	return &out, nil
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
