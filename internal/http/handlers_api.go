package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	"github.com/softwareconstruction240/autograder/internal/navigation"
)

// APIHandlers serves the JSON API used by scripts and SPA clients.
type APIHandlers struct {
	Users UserService
	Table *navigation.Table
}

type meResponse struct {
	User  *model.User      `json:"user"`
	State domainauth.State `json:"state"`
}

// Me returns the caller's user record and navigation state.
// GET /api/me.
func (h *APIHandlers) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.Users.Me(ctx, CurrentNetID(ctx))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, meResponse{User: user, State: StateFromContext(ctx)})
}

// SetRepo sets the caller's repository URL.
// PATCH /api/me/repo.
func (h *APIHandlers) SetRepo(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	user, err := h.Users.Register(ctx, CurrentNetID(ctx), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

type navigationHop struct {
	Destination string `json:"destination"`
	Location    string `json:"location"`
}

type navigationResponse struct {
	Requested string          `json:"requested"`
	Route     string          `json:"route"`
	View      string          `json:"view"`
	Location  string          `json:"location"`
	Hops      []navigationHop `json:"hops"`
}

// Navigation settles a route for the caller's state, following guard redirects.
// GET /api/navigation?route=<name or path>. Other query parameters are passed to the guard.
func (h *APIHandlers) Navigation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	requested := strings.TrimSpace(q.Get("route"))
	if requested == "" {
		requested = navigation.RouteHome
	}
	route, ok := h.Table.Locate(requested)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "unknown_route",
			Err:     navigation.ErrUnknownRoute,
		})
		return
	}
	q.Del("route")
	if len(q) == 0 {
		q = nil
	}

	s, err := h.Table.Settle(navigation.Target{Name: route.Name, Path: route.Path, Query: q}, StateFromContext(r.Context()))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, navigation.ErrRedirectLoop) {
			status = http.StatusLoopDetected
		}
		WriteError(w, ErrorParams{Code: status, ErrCode: "navigation_failed", Err: err})
		return
	}

	hops := make([]navigationHop, 0, len(s.Hops))
	for _, hop := range s.Hops {
		loc, _ := hop.Location(h.Table)
		hops = append(hops, navigationHop{Destination: hop.Destination, Location: loc})
	}
	location := url.URL{Path: s.Route.Path}
	if len(s.Query) > 0 {
		location.RawQuery = s.Query.Encode()
	}
	WriteJSON(w, http.StatusOK, navigationResponse{
		Requested: route.Name,
		Route:     s.Route.Name,
		View:      s.Route.View,
		Location:  location.String(),
		Hops:      hops,
	})
}

// ListUsers returns every user.
// GET /api/admin/users.
func (h *APIHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

// UpdateUser applies an admin's changes to a user.
// PATCH /api/admin/users/{netId}.
func (h *APIHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.AdminUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	user, err := h.Users.AdminUpdate(ctx, CurrentNetID(ctx), r.PathValue("netId"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// RepoHistory lists repository changes, newest first.
// GET /api/admin/repo-history?netId=&repoUrl=&limit=.
func (h *APIHandlers) RepoHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.RepoHistoryFilter{
		NetID:   q.Get("netId"),
		RepoURL: q.Get("repoUrl"),
		Limit:   parseIntQuery(r, "limit", 0),
	}
	history, err := h.Users.RepoHistory(r.Context(), filter)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if history == nil {
		history = []*model.RepoUpdate{}
	}
	WriteJSON(w, http.StatusOK, history)
}
