// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session holds one viewer's voting session for a single event.

# States

	Loading -> PreOpen | Live | Failed
	PreOpen -> Live          (pushed "open")
	Live    -> Closed        (pushed "closed", or a 403 on submit)
	Closed  -> Live          (pushed "open")

Selections exist only in Live. Any move away from an open status clears
them, and a pushed "closed" always wins over a pending toggle.

# Usage

	s := session.New(api, session.Config{Slug: "yep2026", Fingerprint: fp})
	if err := s.Load(ctx); err != nil { ... }
	go watcher.Watch(ctx, src, s.Event().ID, s)
	s.Toggle(optionID)
	err := s.Submit(ctx)
	defer s.Close()

A duplicate ballot (409) counts as a successful submit. Responses that
arrive after Close are dropped.
*/
package session
