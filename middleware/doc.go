// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms), and opens an OpenTelemetry server span around the handler.

# Admin Secret

Admin routes require the shared secret in the x-admin-secret header:

	middleware.RequireAdminSecret(cfg.AdminSecret, h.ListEvents)

A missing or wrong secret gets 403 without reaching the handler.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin, mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.WriteError(w, apierr.New(apierr.KindClosed, "Voting is closed"))

WriteError maps the error kind to the HTTP status and the wire code in the
body. Errors without a kind become a generic 500.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for the salted IP hash stored with each ballot.
*/
package middleware
