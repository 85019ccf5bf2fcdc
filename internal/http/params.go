package http

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// parseMonth extracts the required month query parameter. Only plain
// digit sequences are accepted; a missing value, a sign prefix or any
// non-digit is invalid. Range checking happens in the month resolver.
func parseMonth(r *http.Request) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return 0, false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	month, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return month, true
}

// parsePositiveInt reads a query parameter, falling back to def when
// the value is absent, malformed or below one.
func parsePositiveInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// parseSearch trims the search term and strips control characters.
func parseSearch(r *http.Request) string {
	s := strings.TrimSpace(r.URL.Query().Get("search"))
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
