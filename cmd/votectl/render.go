// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/message"

	"github.com/dncmaduro/vote-mcd/locale"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/session"
	"github.com/dncmaduro/vote-mcd/tally"
)

func renderStatus(w io.Writer, p *message.Printer, s *session.Session, now time.Time) {
	switch s.State() {
	case session.StatePreOpen:
		if d := s.Countdown(now); d > 0 {
			fmt.Fprintln(w, p.Sprintf(locale.MsgOpensIn, formatCountdown(now, d)))
			return
		}
		fmt.Fprintln(w, p.Sprintf(locale.MsgClosed))
	case session.StateLive:
		if s.Event().IsOpen() {
			fmt.Fprintln(w, p.Sprintf(locale.MsgOpen, s.MaxVotes()))
			return
		}
		fmt.Fprintln(w, p.Sprintf(locale.MsgClosed))
	case session.StateClosed:
		fmt.Fprintln(w, p.Sprintf(locale.MsgClosed))
	case session.StateFailed:
		fmt.Fprintln(w, p.Sprintf(locale.MsgLoadFailed))
	}
}

func formatCountdown(now time.Time, d time.Duration) string {
	return strings.TrimSpace(humanize.RelTime(now, now.Add(d), "", ""))
}

func formatCount(n int64) string {
	return humanize.Comma(n)
}

func renderStandings(w io.Writer, p *message.Printer, standings []models.Standing) {
	total := tally.Total(standings)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range standings {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s%%\n",
			s.Rank, s.Label, formatCount(s.Votes), humanize.FtoaWithDigits(tally.Share(s.Votes, total), 1))
	}
	tw.Flush()
}

func renderEvents(w io.Writer, events []models.Event) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tSTATUS\tTITLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Slug, e.Status, e.Title)
	}
	tw.Flush()
}
