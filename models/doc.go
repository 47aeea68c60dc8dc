// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain and change types for the API.

# Request Types

  - VoteRequest: eventId or eventSlug, optionIds, fingerprint
  - SetVoteStatusRequest: status (open|closed)

# Response Types

  - OKResponse: {"ok": true}
  - PublicEventResponse: event, options, counts, max_votes
  - AdminEventsResponse: events
  - ResultsResponse: event, ranked standings, ballot total
  - ErrorResponse: error, message, code, invalid

# Domain Types

  - Event: one votable occasion with an open/closed gate
  - Option: one selectable choice, ordered by sort_order
  - Ballot: one device's accepted set of options (fingerprint hash never serialized)
  - VoteCount: derived per-option tally
  - Standing: ranked results row
  - StatusTransition: audit row written on every status flip

# Changes

Change is the envelope pushed over the live channel, scoped by event id:

	models.NewStatusChange(eventID, models.StatusClosed)
	models.NewCountChange(models.VoteCount{...})

StatusFromChange and CountFromChange decode the payload leniently: partial or
unrecognized payloads report ok=false and must be ignored by receivers.
*/
package models
