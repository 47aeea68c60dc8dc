// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the vote-mcd API.

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, hub, cfg)

main wraps the mux with middleware.CORS.

# Endpoints

Health:

	GET /health

Public:

	GET  /api/events/{slug}/public    - Event, options and counts
	GET  /api/events/{slug}/results   - Ranked standings
	GET  /api/events/{eventId}/live   - WebSocket change stream
	POST /api/vote                    - Submit a ballot

Admin (requires X-Admin-Secret):

	GET  /api/admin/events                         - List events
	POST /api/admin/events/{eventId}/vote-status   - Set open or closed
	GET  /api/admin/events/{eventId}/transitions   - Status change log
*/
package router
