// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides hashing and secret checks for the voting API.

# Fingerprint Hashing

Ballots are keyed by a salted HMAC-SHA256 of the device fingerprint:

	hash := auth.HashFingerprint(fingerprint, salt)

The hash, not the raw fingerprint, is the uniqueness key stored with each
ballot. The same fingerprint and salt always produce the same 64 hex
characters.

# Admin Secret

Admin endpoints compare the x-admin-secret header with the configured secret:

	err := auth.ValidateAdminSecret(r.Header.Get("x-admin-secret"), cfg.AdminSecret)

Both values are digested before comparison so the check is constant time
regardless of length. A server started without a secret rejects every admin
request.

# Identifiers

	id := auth.NewID()              // record ids
	fp := auth.NewFingerprint()     // device fingerprints

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
