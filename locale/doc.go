// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package locale resolves the request language and provides locale-aware
sorting and messages.

Supported languages are Vietnamese (default), English and Chinese. The
request language comes from the ?lang= query parameter, then the vote_lang
cookie, then the default:

	tag, persist := locale.Resolve(r)
	if persist {
		locale.SetCookie(w, tag)
	}

SortEvents implements the admin list order: open events first, then titles
compared case-insensitively with a collator for the resolved language.
*/
package locale
