package httpx

import (
	"context"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

// Context keys are unexported types to avoid collisions across packages.
type (
	sessionKey struct{}
	stateKey   struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// SetStateInContext returns a child context carrying the navigation state.
func SetStateInContext(ctx context.Context, state domainauth.State) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// StateFromContext returns the navigation state loaded for this request.
// Requests that never passed through LoadSession are anonymous.
func StateFromContext(ctx context.Context) domainauth.State {
	if state, ok := ctx.Value(stateKey{}).(domainauth.State); ok {
		return state
	}
	return domainauth.Anonymous()
}

// CurrentNetID returns the netId of the logged-in user, or "" when anonymous.
func CurrentNetID(ctx context.Context) string {
	if u := StateFromContext(ctx).User; u != nil {
		return u.NetID
	}
	return ""
}
