// Package browser opens links for the assistant.
package browser

import (
	"net/url"
	"os/exec"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
)

// OpenFunc launches a URL.
type OpenFunc func(u string) error

// Opener opens URLs with an explicit browser binary when configured, else
// with the platform default.
type Opener struct {
	open OpenFunc
	log  zerolog.Logger
}

// New returns an Opener. binary may be empty.
func New(binary string, log zerolog.Logger) *Opener {
	open := browser.OpenURL
	if binary != "" {
		open = func(u string) error { return exec.Command(binary, u).Start() }
	}
	return NewWithFunc(open, log)
}

// NewWithFunc returns an Opener backed by open.
func NewWithFunc(open OpenFunc, log zerolog.Logger) *Opener {
	return &Opener{open: open, log: log.With().Str("component", "browser").Logger()}
}

// OpenURL reports whether the URL was handed to a browser.
func (o *Opener) OpenURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	if err := o.open(u); err != nil {
		o.log.Warn().Err(err).Str("url", u).Msg("open url")
		return false
	}
	return true
}

// OpenBookingSearch opens a booking-oriented web search for query.
func (o *Opener) OpenBookingSearch(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	return o.OpenURL(BookingSearchURL(query))
}

// BookingSearchURL is the search URL for "book {query}".
func BookingSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape("book "+query)
}
