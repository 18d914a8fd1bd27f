package navigation

import (
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

// Predicate tests the auth snapshot for a rule.
type Predicate func(state domainauth.State) bool

// Action produces the result of a matched rule. It receives the navigation target
// so it can forward the target's query.
type Action func(to Target) Result

// Rule pairs a condition with what to do when it holds.
type Rule struct {
	Name string // short label used in logs and tests
	When Predicate
	Then Action
}

// Policy is an ordered rule list evaluated first-match-wins.
// When no rule matches the navigation proceeds.
type Policy []Rule

// Evaluate returns the action of the first matching rule, or Proceed.
func (p Policy) Evaluate(to Target, state domainauth.State) Result {
	if r, ok := p.Match(state); ok {
		return r.Then(to)
	}
	return Proceed()
}

// Match returns the first rule whose predicate holds.
func (p Policy) Match(state domainauth.State) (Rule, bool) {
	for _, r := range p {
		if r.When(state) {
			return r, true
		}
	}
	return Rule{}, false
}

// Guard adapts the policy to the Guard signature.
func (p Policy) Guard() Guard {
	return func(to, _ Target, state domainauth.State) Result {
		return p.Evaluate(to, state)
	}
}

// Predicates.

func notLoggedIn(s domainauth.State) bool { return !s.LoggedIn }

func fullyRegistered(s domainauth.State) bool { return s.FullyRegistered }

func notFullyRegistered(s domainauth.State) bool { return !s.FullyRegistered }

func isAdmin(s domainauth.State) bool { return s.IsAdmin() }

func notAdmin(s domainauth.State) bool { return !s.IsAdmin() }

// Actions.

// redirect diverts to destination without forwarding any query.
func redirect(destination string) Action {
	return func(Target) Result { return RedirectTo(destination, nil) }
}

// redirectWithQuery diverts to destination carrying the target's query.
func redirectWithQuery(destination string) Action {
	return func(to Target) Result { return RedirectTo(destination, to.Query) }
}
