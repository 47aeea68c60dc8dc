// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dncmaduro/vote-mcd/admin"
	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/client"
	"github.com/dncmaduro/vote-mcd/fingerprint"
	"github.com/dncmaduro/vote-mcd/locale"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/session"
	"github.com/dncmaduro/vote-mcd/watcher"
)

const usage = `usage:
  votectl [flags] vote <option>...
  votectl [flags] watch
  votectl [flags] results
  votectl [flags] admin list
  votectl [flags] admin toggle <eventId>`

type app struct {
	cfg     config
	out     io.Writer
	client  *client.Client
	tag     language.Tag
	printer *message.Printer
	now     func() time.Time
}

func newApp(cfg config, out io.Writer) *app {
	tag := locale.Default()
	if t, ok := locale.Parse(cfg.Lang); ok {
		tag = t
	}

	return &app{
		cfg: cfg,
		out: out,
		client: client.New(cfg.Server,
			client.WithAdminSecret(cfg.AdminSecret),
			client.WithLanguage(tag.String()),
		),
		tag:     tag,
		printer: locale.Printer(tag),
		now:     time.Now,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "vote":
		return a.vote(ctx, args[1:])
	case "watch":
		return a.watch(ctx)
	case "results":
		return a.results(ctx)
	case "admin":
		if len(args) >= 2 && args[1] == "list" {
			return a.adminList(ctx)
		}
		if len(args) == 3 && args[1] == "toggle" {
			return a.adminToggle(ctx, args[2])
		}
	}
	return errors.New(usage)
}

func (a *app) fingerprint() (string, error) {
	path := a.cfg.StorageFile
	if path == "" {
		var err error
		if path, err = fingerprint.DefaultPath(); err != nil {
			return "", err
		}
	}
	return fingerprint.NewFileStore(path).GetOrCreate()
}

func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	fp, err := a.fingerprint()
	if err != nil {
		return nil, err
	}

	s := session.New(a.client, session.Config{
		Slug:        a.cfg.Event,
		Fingerprint: fp,
		Preview:     session.Preview(a.cfg.Preview),
	})
	if err := s.Load(ctx); err != nil {
		fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgLoadFailed))
		return nil, err
	}
	return s, nil
}

func (a *app) vote(ctx context.Context, picks []string) error {
	if len(picks) == 0 {
		return errors.New("vote: pick at least one option")
	}

	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.State() != session.StateLive || !s.Event().IsOpen() {
		if !a.cfg.Wait {
			renderStatus(a.out, a.printer, s, a.now())
			return nil
		}
		if err := a.waitForOpen(ctx, s); err != nil {
			return err
		}
	}

	for _, pick := range picks {
		id, ok := resolveOption(s.Options(), pick)
		if !ok {
			return fmt.Errorf("vote: unknown option %q", pick)
		}
		if s.IsSelected(id) {
			continue
		}
		if !s.Toggle(id) {
			fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgMaxSelected, s.MaxVotes()))
		}
	}
	fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgSelected, len(s.Selected()), s.MaxVotes()))

	err = s.Submit(ctx)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgThanks))
		return nil
	case apierr.KindOf(err) == apierr.KindClosed:
		fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgClosed))
		return nil
	}
	return err
}

// waitForOpen blocks until a pushed change puts the session in Live with
// an open event.
func (a *app) waitForOpen(ctx context.Context, s *session.Session) error {
	renderStatus(a.out, a.printer, s, a.now())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opened := make(chan struct{}, 1)
	notify := watcher.SinkFunc(func(models.Change) bool {
		if s.State() == session.StateLive && s.Event().IsOpen() {
			select {
			case opened <- struct{}{}:
			default:
			}
		}
		return false
	})

	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx, a.client, s.Event().ID, s, notify) }()

	select {
	case <-opened:
		return nil
	case err := <-done:
		return err
	}
}

func (a *app) watch(ctx context.Context) error {
	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	renderStatus(a.out, a.printer, s, a.now())
	renderStandings(a.out, a.printer, s.Standings())

	printer := watcher.SinkFunc(func(c models.Change) bool {
		if _, ok := models.StatusFromChange(c); ok {
			renderStatus(a.out, a.printer, s, a.now())
			return true
		}
		renderStandings(a.out, a.printer, s.Standings())
		return true
	})

	return watcher.Watch(ctx, a.client, s.Event().ID, s, printer)
}

func (a *app) results(ctx context.Context) error {
	resp, err := a.client.Results(ctx, a.cfg.Event)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Event.Title)
	renderStandings(a.out, a.printer, resp.Standings)
	fmt.Fprintln(a.out, a.printer.Sprintf(locale.MsgBallots, formatCount(resp.Ballots)))
	return nil
}

func (a *app) adminList(ctx context.Context) error {
	panel := admin.NewPanel(a.client, a.tag)
	if err := panel.Load(ctx); err != nil {
		return err
	}
	renderEvents(a.out, panel.Events())
	return nil
}

func (a *app) adminToggle(ctx context.Context, eventID string) error {
	panel := admin.NewPanel(a.client, a.tag)
	if err := panel.Load(ctx); err != nil {
		return err
	}
	next, err := panel.Toggle(ctx, eventID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s -> %s\n", eventID, next)
	renderEvents(a.out, panel.Events())
	return nil
}

// resolveOption matches pick against option ids, then labels ignoring case.
func resolveOption(options []models.Option, pick string) (string, bool) {
	for _, o := range options {
		if o.ID == pick {
			return o.ID, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.Label, pick) {
			return o.ID, true
		}
	}
	return "", false
}
