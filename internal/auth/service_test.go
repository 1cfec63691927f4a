package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/angelmondragon/storefront/pkg/validation"
)

type stubRequester struct {
	requests []apiclient.Request
	message  string
	data     string
	err      error
}

func (s *stubRequester) Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	env := types.Envelope{Success: true, Message: s.message}
	if s.data != "" {
		env.Data = json.RawMessage(s.data)
		if out != nil {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return nil, err
			}
		}
	}
	return &apiclient.Response{Status: http.StatusOK, Envelope: env}, nil
}

func buildService(t *testing.T, api *stubRequester) (Service, *session.Manager) {
	t.Helper()
	sessions, err := session.NewManager(storage.NewMemory())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	svc, err := NewService(ServiceParams{API: api, Sessions: sessions})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessions
}

func TestLoginPersistsSession(t *testing.T) {
	api := &stubRequester{data: `{"token":"abc123","refreshToken":"r1","user":{"id":"u1","email":"user@example.com","name":"Jane"}}`}
	svc, sessions := buildService(t, api)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: " user@example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "abc123" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	stored, err := sessions.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Token != "abc123" || stored.RefreshToken != "r1" || stored.User.Name != "Jane" {
		t.Fatalf("unexpected stored session %+v", stored)
	}
	sent := api.requests[0].Body.(LoginRequest)
	if sent.Email != "user@example.com" {
		t.Fatalf("expected trimmed email, got %q", sent.Email)
	}
	if api.requests[0].Path != "/User/Login" || api.requests[0].Auth {
		t.Fatalf("unexpected request %+v", api.requests[0])
	}
}

func TestLoginValidationRejectsBeforeNetwork(t *testing.T) {
	api := &stubRequester{}
	svc, _ := buildService(t, api)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "123"})
	fields := validation.FieldErrors(err)
	if fields["email"] == "" || fields["password"] == "" {
		t.Fatalf("expected email and password errors, got %v", fields)
	}
	if len(api.requests) != 0 {
		t.Fatal("validation failures must not reach the network")
	}
}

func TestLoginWithoutDataFails(t *testing.T) {
	api := &stubRequester{message: "Account locked"}
	svc, sessions := buildService(t, api)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret1"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusiness || typed.Message() != "Account locked" {
		t.Fatalf("expected business error with server message, got %v", err)
	}
	if _, err := sessions.Token(context.Background()); err == nil {
		t.Fatal("no session should be stored")
	}
}

func TestLoginSurfacesServerError(t *testing.T) {
	api := &stubRequester{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid credentials")}
	svc, _ := buildService(t, api)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterAndVerifyOTP(t *testing.T) {
	api := &stubRequester{message: "OTP sent", data: `{"otpSent":true}`}
	svc, sessions := buildService(t, api)
	ctx := context.Background()

	otp, err := svc.RegisterWithOTP(ctx, RegisterRequest{Email: "new@example.com", Name: " Al ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !otp.OTPSent || otp.Message != "OTP sent" {
		t.Fatalf("unexpected otp response %+v", otp)
	}

	if _, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "new@example.com", OTP: "12ab56"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected otp validation error, got %v", err)
	}

	api.data = `{"token":"tok-2","user":{"id":"u2","email":"new@example.com"}}`
	if _, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "new@example.com", OTP: "123456"}); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token, _ := sessions.Token(ctx); token != "tok-2" {
		t.Fatalf("expected session token tok-2, got %q", token)
	}
}

func TestRegisterRejectsShortName(t *testing.T) {
	svc, _ := buildService(t, &stubRequester{})
	_, err := svc.RegisterWithOTP(context.Background(), RegisterRequest{Email: "a@b.co", Name: " A ", Password: "secret1"})
	if validation.FieldErrors(err)["name"] == "" {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestPasswordFlows(t *testing.T) {
	api := &stubRequester{data: `{"otpSent":true,"message":"code sent"}`}
	svc, _ := buildService(t, api)
	ctx := context.Background()

	if _, err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "user@example.com"}); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if err := svc.NewPassword(ctx, NewPasswordRequest{Email: "user@example.com", OTP: "123456", NewPassword: "newpass"}); err != nil {
		t.Fatalf("new password: %v", err)
	}
	if err := svc.ChangePassword(ctx, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret1"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected error when reusing password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("change: %v", err)
	}
	last := api.requests[len(api.requests)-1]
	if last.Path != "/User/ChangePassword" || !last.Auth {
		t.Fatalf("change password must be authenticated, got %+v", last)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	api := &stubRequester{data: `{"token":"abc123"}`}
	svc, sessions := buildService(t, api)
	ctx := context.Background()
	if _, err := svc.Login(ctx, LoginRequest{Email: "user@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := sessions.Token(ctx); err == nil {
		t.Fatal("expected no token after logout")
	}
}
