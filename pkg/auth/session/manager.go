package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/pkg/storage"
	"go.uber.org/multierr"
)

// Storage keys shared with the mobile client so an exported device profile stays readable.
const (
	KeyToken        = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user_data"
)

// ErrNoSession is returned when no bearer token is persisted.
var ErrNoSession = errors.New("no active session")

// Profile is the user snapshot persisted alongside the token.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Session is the persisted auth state of the device.
type Session struct {
	Token        string
	RefreshToken string
	User         *Profile
}

// Manager persists and clears the device session.
type Manager struct {
	store storage.Store
}

// NewManager constructs a session manager over the device store.
func NewManager(store storage.Store) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	return &Manager{store: store}, nil
}

// Save writes the session. Empty refresh tokens and nil users remove stale values.
func (m *Manager) Save(ctx context.Context, s Session) error {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		return err
	}

	if s.RefreshToken != "" {
		if err := m.store.Set(ctx, KeyRefreshToken, s.RefreshToken); err != nil {
			return err
		}
	} else if err := m.store.Delete(ctx, KeyRefreshToken); err != nil {
		return err
	}

	if s.User == nil {
		return m.store.Delete(ctx, KeyUser)
	}
	raw, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return m.store.Set(ctx, KeyUser, string(raw))
}

// Token returns the bearer token, or ErrNoSession.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && strings.TrimSpace(token) == "") {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// RefreshToken returns the stored refresh token or an empty string.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx, KeyRefreshToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// User returns the stored profile or nil when none was saved.
func (m *Manager) User(ctx context.Context) (*Profile, error) {
	raw, err := m.store.Get(ctx, KeyUser)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &profile, nil
}

// Load returns the full session, or ErrNoSession when no token is stored.
func (m *Manager) Load(ctx context.Context) (*Session, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	refresh, err := m.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	user, err := m.User(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, RefreshToken: refresh, User: user}, nil
}

// Clear removes every session key, attempting all of them even when one fails.
func (m *Manager) Clear(ctx context.Context) error {
	var errs error
	for _, key := range []string{KeyToken, KeyRefreshToken, KeyUser} {
		errs = multierr.Append(errs, m.store.Delete(ctx, key))
	}
	return errs
}
