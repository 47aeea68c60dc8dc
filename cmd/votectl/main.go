// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command votectl is a terminal front end for vote-mcd: it votes from this
// device, follows an event live, prints results and drives the admin toggle.
//
//	votectl [flags] vote <option>...
//	votectl [flags] watch
//	votectl [flags] results
//	votectl [flags] admin list
//	votectl [flags] admin toggle <eventId>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
)

type config struct {
	Server      string `env:"VOTE_SERVER" envDefault:"http://localhost:3318"`
	Event       string `env:"VOTE_EVENT" envDefault:"yep2026"`
	Lang        string `env:"VOTE_LANG"`
	AdminSecret string `env:"ADMIN_SECRET"`
	StorageFile string `env:"VOTE_STORAGE_FILE"`
	Preview     string `env:"VOTE_PREVIEW"`
	Wait        bool   `env:"VOTE_WAIT"`
}

// parseConfig reads the environment, then lets flags override it. The
// remaining arguments are the subcommand.
func parseConfig(args []string, stderr io.Writer) (config, []string, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("votectl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.Server, "server", cfg.Server, "Server base URL")
	flags.StringVar(&cfg.Event, "event", cfg.Event, "Event slug")
	flags.StringVar(&cfg.Lang, "lang", cfg.Lang, "Language (vi, en, zh)")
	flags.StringVar(&cfg.AdminSecret, "admin-secret", cfg.AdminSecret, "Admin shared secret (prefer env)")
	flags.StringVar(&cfg.StorageFile, "storage", cfg.StorageFile, "Local storage file holding the device fingerprint")
	flags.StringVar(&cfg.Preview, "preview", cfg.Preview, "Force a view: pre or live")
	flags.BoolVar(&cfg.Wait, "wait", cfg.Wait, "Wait for voting to open before submitting")

	if err := flags.Parse(args); err != nil {
		return config{}, nil, err
	}
	switch cfg.Preview {
	case "", "pre", "live":
	default:
		return config{}, nil, fmt.Errorf("preview must be pre or live, got %q", cfg.Preview)
	}
	return cfg, flags.Args(), nil
}

func main() {
	cfg, args, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, os.Stdout)
	if err := app.run(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
