// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the vote-mcd API.

# Handler Types

Each handler is a struct holding the shared store and configuration:

  - EventHandler: Public event view with options and counts
  - VotingHandler: Ballot submission gateway
  - ResultsHandler: Ranked standings
  - AdminHandler: Event listing, vote status toggle, transition log
  - LiveHandler: WebSocket stream of status and count changes

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(st, cfg)
	liveHandler := handlers.NewLiveHandler(st, hub)

# Submission Gateway

POST /api/vote checks, in order: JSON shape, required fields, the
selection limit, event existence, event status, and option membership.
Only then is the ballot written. A second ballot from the same device
fingerprint is rejected with 409 by the database unique constraint.

# Event Status

Events are either open or closed. The admin toggle records every real
transition and pushes the new status to live subscribers. Setting the
current status again succeeds without writing a log row.

Admin operations require the X-Admin-Secret header, checked by
middleware.RequireAdminSecret at the router.

# Live Stream

GET /api/events/{eventId}/live upgrades to a WebSocket. The first message
is the current status as a models.Change; every committed change for the
event follows. The server pings idle connections every PingInterval.
*/
package handlers
