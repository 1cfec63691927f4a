package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/chat"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/payments"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/scanner"
	"github.com/angelmondragon/storefront/internal/videos"
	"github.com/angelmondragon/storefront/pkg/apiclient"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/angelmondragon/storefront/pkg/validation"
)

type appParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    storage.Store
	Out      io.Writer
	Registry prometheus.Registerer
}

// app holds one wired client per screen.
type app struct {
	logg *logger.Logger
	out  io.Writer

	api      *apiclient.Client
	sessions *session.Manager
	gate     *auth.Gate
	auth     auth.Service
	catalog  products.Service
	cart     cart.Service
	basket   *cart.Store
	orders   orders.Service
	payments payments.Service
	videos   videos.Service
	scanner  *scanner.Scanner
}

func newApp(params appParams) (*app, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	out := params.Out
	if out == nil {
		out = io.Discard
	}

	sessions, err := session.NewManager(params.Store)
	if err != nil {
		return nil, err
	}
	api, err := apiclient.New(params.Config.API.BaseURL,
		apiclient.WithTimeout(params.Config.API.Timeout),
		apiclient.WithTokenSource(sessions),
		apiclient.WithLogger(logg),
		apiclient.WithMetrics(metrics.NewRequestMetrics(params.Registry, metrics.SubsystemClient)),
	)
	if err != nil {
		return nil, err
	}

	a := &app{logg: logg, out: out, api: api, sessions: sessions}
	if a.gate, err = auth.NewGate(sessions, logg); err != nil {
		return nil, err
	}
	if a.auth, err = auth.NewService(auth.ServiceParams{API: api, Sessions: sessions}); err != nil {
		return nil, err
	}
	if a.catalog, err = products.NewService(api); err != nil {
		return nil, err
	}
	a.basket = cart.NewStore()
	if a.cart, err = cart.NewService(api, a.basket); err != nil {
		return nil, err
	}
	if a.orders, err = orders.NewService(api); err != nil {
		return nil, err
	}
	if a.payments, err = payments.NewService(api); err != nil {
		return nil, err
	}
	if a.videos, err = videos.NewService(api); err != nil {
		return nil, err
	}
	if a.scanner, err = scanner.New(scanner.Params{
		Catalog: a.catalog,
		Tokens:  sessions,
		Config:  params.Config.Scanner,
		Logger:  logg,
	}); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) conversation() (*chat.Conversation, error) {
	return chat.NewConversation(a.api, a.logg)
}

// run dispatches one sub-command. An unauthorized failure signs the user out
// and reports the route the app would navigate to.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd.run(ctx, a, args[1:])
	if !cmd.authenticated {
		return err
	}
	if route, handled := a.gate.HandleUnauthorized(ctx, err); handled {
		a.basket.Dispatch(cart.Cleared{})
		fmt.Fprintf(a.out, "session ended, navigate to %s\n", route)
	}
	return err
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// checkInline prints one line per invalid field before any request is sent.
func (a *app) checkInline(messages map[string]string) error {
	err := validation.Inline(messages)
	fields := validation.FieldErrors(err)
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(a.out, "%s: %s\n", field, fields[field])
	}
	return err
}
