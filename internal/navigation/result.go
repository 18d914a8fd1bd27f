package navigation

import (
	"net/url"
)

// Result is a guard decision: proceed to the requested route, or redirect.
// The zero value proceeds.
type Result struct {
	redirect bool
	// Destination is a route name or a path beginning with "/".
	Destination string
	// Query is forwarded to the destination. Nil means no query.
	Query url.Values
}

// Proceed lets the navigation continue to the requested route.
func Proceed() Result { return Result{} }

// RedirectTo diverts the navigation to destination, forwarding query when non-nil.
func RedirectTo(destination string, query url.Values) Result {
	return Result{redirect: true, Destination: destination, Query: query}
}

// IsRedirect reports whether the result diverts the navigation.
func (r Result) IsRedirect() bool { return r.redirect }

// Location renders a redirect as a same-origin URL using t to turn route names into paths.
// It returns false for Proceed and for destinations the table cannot resolve.
func (r Result) Location(t *Table) (string, bool) {
	if !r.redirect {
		return "", false
	}
	route, ok := t.Locate(r.Destination)
	if !ok {
		return "", false
	}
	u := url.URL{Path: route.Path}
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}
	return u.String(), true
}

// String is for logs.
func (r Result) String() string {
	if !r.redirect {
		return "proceed"
	}
	if len(r.Query) == 0 {
		return "redirect:" + r.Destination
	}
	return "redirect:" + r.Destination + "?" + r.Query.Encode()
}
