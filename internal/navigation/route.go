// Package navigation holds the application's route table and the guards that
// decide, before a page renders, whether to show it or send the visitor elsewhere.
//
// Guards are pure functions of the target, the current location and an
// injected auth.State snapshot. The table is built once at startup and never mutated.
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

// Target describes one side of a navigation: where the visitor wants to go (to)
// or where they are now (from). Query is the URL query of that location.
type Target struct {
	Name  string
	Path  string
	Query url.Values
}

// Guard decides whether a navigation into a route may proceed.
// Guards must be total: every state yields Proceed or a redirect.
type Guard func(to, from Target, state domainauth.State) Result

// Route is one navigable location.
type Route struct {
	Name  string
	Path  string
	View  string // template rendered when the guard proceeds
	Guard Guard  // nil means always proceed
}

var (
	// ErrUnknownRoute is returned when a route name is not in the table.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrUnknownDestination is returned when a redirect target matches no route.
	ErrUnknownDestination = errors.New("unknown redirect destination")
	// ErrRedirectLoop is returned when Settle exceeds MaxRedirects hops.
	ErrRedirectLoop = errors.New("redirect loop")
)

// MaxRedirects bounds how many guard redirects Settle follows.
const MaxRedirects = 8

// Table is an immutable set of routes with unique names and paths.
type Table struct {
	routes []Route
	byName map[string]int
	byPath map[string]int
}

// New validates routes and builds a Table. Names and paths must be unique,
// names non-empty and paths absolute.
func New(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byName: make(map[string]int, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("route with path %q: name is required", r.Path)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %q: path %q must start with /", r.Name, r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("duplicate route path %q", r.Path)
		}
		t.byName[r.Name] = len(t.routes)
		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// MustNew is like New but panics on an invalid table. Intended for package-level defaults.
func MustNew(routes ...Route) *Table {
	t, err := New(routes...)
	if err != nil {
		panic(err) //nolint:forbidigo // static route tables are validated at startup
	}
	return t
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Match returns the route registered for an exact path.
func (t *Table) Match(path string) (Route, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Locate resolves a redirect destination. Destinations starting with "/" are
// paths; anything else is a route name.
func (t *Table) Locate(destination string) (Route, bool) {
	if strings.HasPrefix(destination, "/") {
		return t.Match(destination)
	}
	return t.Lookup(destination)
}

// Resolve evaluates the guard of the named route for the given state.
// It fails only when name is not in the table.
func (t *Table) Resolve(name string, query url.Values, state domainauth.State) (Result, error) {
	return t.ResolveFrom(Target{Name: name, Query: query}, Target{}, state)
}

// ResolveFrom is Resolve with an explicit current location.
func (t *Table) ResolveFrom(to, from Target, state domainauth.State) (Result, error) {
	route, ok := t.Lookup(to.Name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRoute, to.Name)
	}
	to.Path = route.Path
	if route.Guard == nil {
		return Proceed(), nil
	}
	return route.Guard(to, from, state), nil
}

// Settlement is the outcome of following guard redirects to a route that proceeds.
type Settlement struct {
	Route Route
	Query url.Values
	// Hops lists the redirect results in the order they were applied.
	Hops []Result
}

// Settle follows redirects from to until a guard proceeds, re-evaluating each
// destination's guard with the same state.
func (t *Table) Settle(to Target, state domainauth.State) (Settlement, error) {
	var (
		from Target
		hops []Result
	)
	for range MaxRedirects + 1 {
		res, err := t.ResolveFrom(to, from, state)
		if err != nil {
			return Settlement{}, err
		}
		if !res.IsRedirect() {
			route, _ := t.Lookup(to.Name)
			return Settlement{Route: route, Query: to.Query, Hops: hops}, nil
		}
		hops = append(hops, res)
		next, ok := t.Locate(res.Destination)
		if !ok {
			return Settlement{}, fmt.Errorf("%w: %q", ErrUnknownDestination, res.Destination)
		}
		route, _ := t.Lookup(to.Name)
		from = Target{Name: route.Name, Path: route.Path, Query: to.Query}
		to = Target{Name: next.Name, Path: next.Path, Query: res.Query}
	}
	return Settlement{}, fmt.Errorf("%w: more than %d redirects starting at %q", ErrRedirectLoop, MaxRedirects, hops[0].Destination)
}
