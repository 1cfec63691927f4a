package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/sandbox"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer, *prometheus.Registry) {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		API:     config.APIConfig{Timeout: 5 * time.Second},
		Scanner: config.ScannerConfig{TopN: 8},
		Sandbox: config.SandboxConfig{
			JWT: config.JWTConfig{Secret: "cli-secret", Issuer: "cli-test", ExpirationMinutes: 5},
			Password: config.PasswordConfig{
				ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
			},
			OTP:  config.OTPConfig{TTL: time.Minute, FixedCode: "135790"},
			Seed: true,
		},
	}
	store, err := sandbox.New(sandbox.Params{Config: cfg.Sandbox, Logger: logger.Nop(), PublicURL: "http://sandbox.test"})
	require.NoError(t, err)
	srv := httptest.NewServer(routes.NewRouter(routes.Params{Config: cfg, Logger: logger.Nop(), Store: store}))
	t.Cleanup(srv.Close)
	cfg.API.BaseURL = srv.URL + routes.APIPrefix

	out := &bytes.Buffer{}
	registry := prometheus.NewRegistry()
	a, err := newApp(appParams{
		Config:   cfg,
		Logger:   logger.Nop(),
		Store:    storage.NewMemory(),
		Out:      out,
		Registry: registry,
	})
	require.NoError(t, err)
	return a, out, registry
}

func mustRun(t *testing.T, a *app, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if err := a.run(context.Background(), args); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.Error(t, a.run(context.Background(), []string{"teleport"}))
	require.Error(t, a.run(context.Background(), nil))
}

func TestCommandTableNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range commandTable {
		assert.False(t, seen[c.name], "duplicate command %q", c.name)
		assert.NotNil(t, c.run, c.name)
		seen[c.name] = true
	}
}

func TestSessionCommands(t *testing.T) {
	a, out, _ := newTestApp(t)

	assert.Equal(t, string(auth.RouteLogin)+"\n", mustRun(t, a, out, "route"))

	got := mustRun(t, a, out, "login", "-email", sandbox.DemoEmail, "-password", sandbox.DemoPassword)
	assert.Contains(t, got, "Demo Shopper")
	assert.Equal(t, string(auth.RouteMain)+"\n", mustRun(t, a, out, "route"))
	assert.Contains(t, mustRun(t, a, out, "whoami"), sandbox.DemoEmail)

	assert.Contains(t, mustRun(t, a, out, "logout"), string(auth.RouteLogin))
	assert.Equal(t, string(auth.RouteLogin)+"\n", mustRun(t, a, out, "route"))
}

func TestLoginFailureKeepsOutputClean(t *testing.T) {
	a, out, _ := newTestApp(t)
	err := a.run(context.Background(), []string{"login", "-email", sandbox.DemoEmail, "-password", "wrong-password"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "got %v", err)
	assert.NotContains(t, out.String(), "session ended")
}

func TestAuthCommandsPrintInlineErrors(t *testing.T) {
	a, out, registry := newTestApp(t)

	err := a.run(context.Background(), []string{"register", "-email", "nope", "-name", "L", "-password", "abc"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	assert.Equal(t, "email: email is invalid\n"+
		"name: name must be at least 2 characters\n"+
		"password: password must be at least 6 characters\n", out.String())

	out.Reset()
	err = a.run(context.Background(), []string{"login", "-email", sandbox.DemoEmail})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	assert.Equal(t, "password: password is required\n", out.String())

	families, err := testutil.GatherAndCount(registry, "storefront_client_requests_total")
	require.NoError(t, err)
	assert.Zero(t, families)
}

func TestAuthenticatedCommandWithoutSessionRoutesToLogin(t *testing.T) {
	a, out, _ := newTestApp(t)
	err := a.run(context.Background(), []string{"cart"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "got %v", err)
	assert.Contains(t, out.String(), "navigate to "+string(auth.RouteLogin))
}

func TestShoppingCommands(t *testing.T) {
	a, out, registry := newTestApp(t)
	mustRun(t, a, out, "login", "-email", sandbox.DemoEmail, "-password", sandbox.DemoPassword)

	listing := mustRun(t, a, out, "products", "-q", "volume mascara")
	require.Contains(t, listing, "Volume Mascara")
	id := extractField(t, listing, `"productId": "`)

	mustRun(t, a, out, "add", "-product", id, "-qty", "2")
	assert.Contains(t, mustRun(t, a, out, "cart"), "1 line(s), 2 unit(s), subtotal 700000")

	assert.Contains(t, mustRun(t, a, out, "order", "-product", id, "-qty", "2"), `"status": "pending"`)
	assert.Contains(t, mustRun(t, a, out, "history"), "ORD-")

	link := strings.TrimSpace(mustRun(t, a, out, "pay-link", "-amount", "700000"))
	code := link[strings.LastIndex(link, "/")+1:]
	assert.Contains(t, mustRun(t, a, out, "pay-confirm", "-code", code), "payment confirmed")

	err := a.run(context.Background(), []string{"pay-link", "-amount", "lots"})
	require.Error(t, err)

	families, err := testutil.GatherAndCount(registry, "storefront_client_requests_total")
	require.NoError(t, err)
	assert.Positive(t, families)
}

func TestLogoutClearsLocalCart(t *testing.T) {
	a, out, _ := newTestApp(t)
	mustRun(t, a, out, "login", "-email", sandbox.DemoEmail, "-password", sandbox.DemoPassword)

	id := extractField(t, mustRun(t, a, out, "products", "-q", "volume mascara"), `"productId": "`)
	mustRun(t, a, out, "add", "-product", id, "-qty", "1")
	mustRun(t, a, out, "cart")
	require.Equal(t, 1, a.basket.Count())

	mustRun(t, a, out, "logout")
	assert.Zero(t, a.basket.Count())
	assert.Zero(t, a.basket.Subtotal())
}

func TestVideoCommands(t *testing.T) {
	a, out, _ := newTestApp(t)
	mustRun(t, a, out, "login", "-email", sandbox.DemoEmail, "-password", sandbox.DemoPassword)

	clip := filepath.Join(t.TempDir(), "tutorial.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("not really a video"), 0o600))

	uploaded := mustRun(t, a, out, "upload", "-title", "Tutorial", "-description", "Five minute look", "-file", clip)
	assert.Contains(t, uploaded, "/tutorial.mp4")
	id := extractField(t, uploaded, `"videoId": "`)

	assert.Contains(t, mustRun(t, a, out, "update-video", "-id", id, "-title", "Tutorial v2", "-description", "Five minute look"), "Tutorial v2")
	assert.Contains(t, mustRun(t, a, out, "videos"), "Tutorial v2")
	mustRun(t, a, out, "delete-video", "-id", id)

	require.Error(t, a.run(context.Background(), []string{"upload", "-title", "x", "-description", "y"}))
}

func TestChatAndScanCommands(t *testing.T) {
	a, out, _ := newTestApp(t)
	mustRun(t, a, out, "login", "-email", sandbox.DemoEmail, "-password", sandbox.DemoPassword)

	assert.Contains(t, mustRun(t, a, out, "chat", "how", "do", "I", "pay?"), "payment link")
	assert.Contains(t, mustRun(t, a, out, "scan"), `"skinTone"`)
}

func extractField(t *testing.T, body, prefix string) string {
	t.Helper()
	i := strings.Index(body, prefix)
	require.GreaterOrEqual(t, i, 0, "missing %s in %s", prefix, body)
	rest := body[i+len(prefix):]
	return rest[:strings.Index(rest, `"`)]
}
