package sandbox

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/security"
	"github.com/angelmondragon/storefront/pkg/validation"
	"github.com/google/uuid"
)

type user struct {
	id           string
	email        string
	name         string
	phone        string
	passwordHash string
}

func (u *user) profile() session.Profile {
	return session.Profile{ID: u.id, Email: u.email, Name: u.name, Phone: u.phone}
}

type otpCode struct {
	code      string
	expiresAt time.Time
}

type pendingUser struct {
	user
	otp otpCode
}

// Registration is the data captured by the sign-up form.
type Registration struct {
	Email    string
	Name     string
	Password string
	Phone    string
}

// Register stores a pending account and returns the OTP that confirms it.
func (s *Store) Register(ctx context.Context, reg Registration) (string, error) {
	email := normalizeEmail(reg.Email)
	s.mu.RLock()
	_, exists := s.users[email]
	s.mu.RUnlock()
	if exists {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered")
	}

	hash, err := security.HashPassword(reg.Password, s.cfg.Password)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	otp, err := s.issueOTP()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "Email is already registered")
	}
	s.pending[email] = &pendingUser{
		user: user{
			email:        email,
			name:         strings.TrimSpace(reg.Name),
			phone:        strings.TrimSpace(reg.Phone),
			passwordHash: hash,
		},
		otp: otp,
	}
	s.logg.Info(s.logg.WithField(ctx, "email", email), "sandbox.otp.issued")
	return otp.code, nil
}

// VerifyRegistration activates a pending account.
func (s *Store) VerifyRegistration(ctx context.Context, email, code string) (session.Profile, error) {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pending[email]
	if !ok {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeNotFound, "No pending registration for this email")
	}
	if err := s.checkOTP(pending.otp, code); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			delete(s.pending, email)
		}
		return session.Profile{}, err
	}

	u := pending.user
	u.id = uuid.NewString()
	s.users[email] = &u
	s.usersByID[u.id] = &u
	delete(s.pending, email)
	s.logg.Info(s.logg.WithUserID(ctx, u.id), "sandbox.user.registered")
	return u.profile(), nil
}

// Authenticate checks credentials and returns the account profile.
func (s *Store) Authenticate(_ context.Context, email, password string) (session.Profile, error) {
	s.mu.RLock()
	u, ok := s.users[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}
	match, err := security.VerifyPassword(password, u.passwordHash)
	if err != nil {
		return session.Profile{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}
	return u.profile(), nil
}

// StartPasswordReset issues a reset code for an existing account.
func (s *Store) StartPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	otp, err := s.issueOTP()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "No account found for this email")
	}
	s.resets[email] = otp
	s.logg.Info(s.logg.WithField(ctx, "email", email), "sandbox.reset.issued")
	return otp.code, nil
}

// ResetPassword replaces the password after checking the reset code.
func (s *Store) ResetPassword(_ context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	hash, err := security.HashPassword(newPassword, s.cfg.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	otp, ok := s.resets[email]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "No password reset requested for this email")
	}
	if err := s.checkOTP(otp, code); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			delete(s.resets, email)
		}
		return err
	}
	u, ok := s.users[email]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "No account found for this email")
	}
	u.passwordHash = hash
	delete(s.resets, email)
	return nil
}

// ChangePassword updates the password of a signed-in user.
func (s *Store) ChangePassword(_ context.Context, userID, current, next string) error {
	s.mu.RLock()
	u, ok := s.usersByID[userID]
	var hash string
	if ok {
		hash = u.passwordHash
	}
	s.mu.RUnlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Account no longer exists")
	}

	match, err := security.VerifyPassword(current, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return pkgerrors.New(pkgerrors.CodeValidation, "Current password is incorrect").
			WithDetails(map[string]string{"currentPassword": "is incorrect"})
	}
	newHash, err := security.HashPassword(next, s.cfg.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	s.mu.Lock()
	u.passwordHash = newHash
	s.mu.Unlock()
	return nil
}

// Profile returns the account behind a user id.
func (s *Store) Profile(_ context.Context, userID string) (session.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByID[userID]
	if !ok {
		return session.Profile{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return u.profile(), nil
}

func (s *Store) issueOTP() (otpCode, error) {
	code := strings.TrimSpace(s.cfg.OTP.FixedCode)
	if code == "" {
		generated, err := security.GenerateOTP(validation.OTPLength)
		if err != nil {
			return otpCode{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
		}
		code = generated
	}
	return otpCode{code: code, expiresAt: s.now().Add(s.otpTTL())}, nil
}

// checkOTP must be called with the write lock held.
func (s *Store) checkOTP(otp otpCode, code string) error {
	if !s.now().Before(otp.expiresAt) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "Verification code has expired")
	}
	if strings.TrimSpace(code) != otp.code {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid verification code").
			WithDetails(map[string]string{"otp": "is invalid"})
	}
	return nil
}

// addUser inserts an already verified account. Used by the seed.
func (s *Store) addUser(reg Registration) error {
	hash, err := security.HashPassword(reg.Password, s.cfg.Password)
	if err != nil {
		return err
	}
	u := &user{
		id:           uuid.NewString(),
		email:        normalizeEmail(reg.Email),
		name:         reg.Name,
		phone:        reg.Phone,
		passwordHash: hash,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.email] = u
	s.usersByID[u.id] = u
	return nil
}
