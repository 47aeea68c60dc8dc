// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package locale

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dncmaduro/vote-mcd/models"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// CookieName stores the user's language preference.
	CookieName = "vote_lang"
)

var (
	Vietnamese = language.Vietnamese
	English    = language.English
	Chinese    = language.Chinese

	supported = []language.Tag{Vietnamese, English, Chinese}
	matcher   = language.NewMatcher(supported)
)

// Default returns the language used when nothing else is requested.
func Default() language.Tag {
	return Vietnamese
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Parse maps a raw value such as "en", "en-US" or "zh-Hans" to a supported
// tag. ok is false when the value is empty, malformed or unsupported.
func Parse(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return language.Und, false
	}
	return supported[idx], true
}

// Resolve picks the request language: the lang query parameter, then the
// preference cookie, then the default. Accept-Language is not consulted.
// persist reports whether the query parameter should be stored as a cookie.
func Resolve(r *http.Request) (tag language.Tag, persist bool) {
	if r == nil {
		return Default(), false
	}
	if tag, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if tag, ok := Parse(cookie.Value); ok {
			return tag, false
		}
	}
	return Default(), false
}

// SetCookie persists the selected language on the response.
func SetCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// SortEvents orders events open first, then by title using a
// case-insensitive collation for tag.
func SortEvents(events []models.Event, tag language.Tag) {
	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(events, func(i, j int) bool {
		oi, oj := events[i].IsOpen(), events[j].IsOpen()
		if oi != oj {
			return oi
		}
		return col.CompareString(events[i].Title, events[j].Title) < 0
	})
}

// Printer returns a message printer for tag backed by the catalog in
// messages.go.
func Printer(tag language.Tag) *message.Printer {
	if _, ok := Parse(tag.String()); !ok {
		tag = Default()
	}
	return message.NewPrinter(tag)
}
