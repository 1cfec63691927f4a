// Command storefront drives the storefront client from a terminal. Each
// sub-command stands in for one screen action of the mobile app.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/instance"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	_ = godotenv.Load()

	metricsFile := flag.String("metrics-file", "", "write client request metrics to this file after the command")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	ctx = logg.WithCommand(ctx, flag.Arg(0))

	store, err := storage.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "storage", err)

	registry := prometheus.NewRegistry()
	a, err := newApp(appParams{
		Config:   cfg,
		Logger:   logg,
		Store:    store,
		Out:      os.Stdout,
		Registry: registry,
	})
	requireResource(ctx, logg, "client", err)

	runErr := a.run(ctx, flag.Args())

	if *metricsFile != "" {
		if err := prometheus.WriteToTextfile(*metricsFile, registry); err != nil {
			logg.Error(ctx, "failed to write metrics", err)
		}
	}
	if err := store.Close(); err != nil {
		logg.Error(ctx, "error closing storage", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", resource), "failed to initialize", err)
	os.Exit(1)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "usage: storefront [-metrics-file path] <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, c := range commandTable {
		fmt.Fprintf(out, "  %-16s %s\n", c.name, c.summary)
	}
}
