package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgauth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Route names the screen stack shown after a session decision.
type Route string

const (
	RouteMain  Route = "BottomTabNavigator"
	RouteLogin Route = "Login"
)

type tokenStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Gate decides between the main screens and the login screen.
type Gate struct {
	sessions tokenStore
	logg     *logger.Logger
	now      func() time.Time
}

// NewGate builds a gate over the persisted session.
func NewGate(sessions tokenStore, logg *logger.Logger) (*Gate, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Gate{sessions: sessions, logg: logg, now: time.Now}, nil
}

// InitialRoute reads the stored token once at launch. Any stored token leads to
// the main screens unless it is a JWT that has already expired; opaque tokens
// are trusted until the backend rejects them.
func (g *Gate) InitialRoute(ctx context.Context) Route {
	token, err := g.sessions.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			g.logg.Warn(g.logg.WithField(ctx, "error", err.Error()), "auth.gate.read_failed")
		}
		return RouteLogin
	}
	if pkgauth.Expired(token, g.now()) {
		if err := g.sessions.Clear(ctx); err != nil {
			g.logg.Error(ctx, "auth.gate.clear_expired_failed", err)
		}
		g.logg.Info(ctx, "auth.gate.token_expired")
		return RouteLogin
	}
	return RouteMain
}

// Logout clears every session key and routes to login.
func (g *Gate) Logout(ctx context.Context) (Route, error) {
	if err := g.sessions.Clear(ctx); err != nil {
		return RouteLogin, err
	}
	g.logg.Info(ctx, "auth.logout")
	return RouteLogin, nil
}

// HandleUnauthorized clears the session when err is a 401 from the backend.
func (g *Gate) HandleUnauthorized(ctx context.Context, err error) (Route, bool) {
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		return "", false
	}
	if clearErr := g.sessions.Clear(ctx); clearErr != nil {
		g.logg.Error(ctx, "auth.gate.clear_failed", clearErr)
	}
	g.logg.Warn(ctx, "auth.session.rejected")
	return RouteLogin, true
}
