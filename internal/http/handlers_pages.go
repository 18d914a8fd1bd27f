package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	apperrors "github.com/softwareconstruction240/autograder/internal/errors"
	"github.com/softwareconstruction240/autograder/internal/http/validation"
	"github.com/softwareconstruction240/autograder/internal/navigation"
	"github.com/softwareconstruction240/autograder/internal/service"
)

// UserService is the user behavior the pages and API need.
type UserService interface {
	StateResolver
	Me(ctx context.Context, netID string) (*model.User, error)
	Register(ctx context.Context, netID string, req model.RegisterRequest) (*model.User, error)
	AdminUpdate(ctx context.Context, adminNetID, netID string, req model.AdminUpdateRequest) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	RepoHistory(ctx context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error)
}

var _ UserService = (*service.UserService)(nil)

// viewTitles are page titles per view.
var viewTitles = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	navigation.ViewHome:     "Home",
	navigation.ViewHelp:     "Help queue",
	navigation.ViewRegister: "Register",
	navigation.ViewAdmin:    "Admin",
	navigation.ViewLogin:    "Log in",
	viewNotFound:            "Not found",
	viewError:               "Error",
}

const (
	viewNotFound = "not-found"
	viewError    = "error"
)

// Form limits mirror the user model's column sizes.
const (
	maxRepoURLLen = 255
	maxNameLen    = 100
)

var roleOptions = []string{string(domainauth.RoleStudent), string(domainauth.RoleAdmin)} //nolint:gochecknoglobals // read-only

// PageHandlers serves the routes of a navigation table, applying each route's guard
// before rendering its view.
type PageHandlers struct {
	Table  *navigation.Table
	Users  UserService
	T      *TemplateRenderer
	Logger *slog.Logger
}

func (h *PageHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Route returns the handler for a table route. Guard redirects answer 302 Found;
// otherwise the route's view is rendered.
func (h *PageHandlers) Route(route navigation.Route) http.Handler {
	return h.Guarded(route.Name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := h.viewData(r, route.View)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		h.render(w, http.StatusOK, data)
	}))
}

// Guarded runs next only when the named route's guard lets the request proceed.
// Form submissions use the guard of the page they belong to.
func (h *PageHandlers) Guarded(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.guard(w, r, name) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guard evaluates the named route's guard for this request and writes the redirect
// when it diverts. It reports whether a response was written.
func (h *PageHandlers) guard(w http.ResponseWriter, r *http.Request, name string) bool {
	state := StateFromContext(r.Context())
	res, err := h.Table.Resolve(name, r.URL.Query(), state)
	if err != nil {
		h.serverError(w, r, err)
		return true
	}
	if !res.IsRedirect() {
		return false
	}

	loc, ok := res.Location(h.Table)
	if !ok {
		h.serverError(w, r, navigation.ErrUnknownDestination)
		return true
	}
	h.logger().DebugContext(r.Context(), "navigation redirect",
		"route", name, "result", res.String(), "logged_in", state.LoggedIn)
	http.Redirect(w, r, loc, http.StatusFound)
	return true
}

// viewData loads what each view shows.
func (h *PageHandlers) viewData(r *http.Request, view string) (PageData, error) {
	ctx := r.Context()
	data := NewPageData(r, view, viewTitles[view])

	switch view {
	case navigation.ViewHome:
		user, err := h.Users.Me(ctx, CurrentNetID(ctx))
		if err != nil {
			return data, err
		}
		data = data.With("User", user)

	case navigation.ViewRegister:
		repoURL := ""
		if user, err := h.Users.Me(ctx, CurrentNetID(ctx)); err == nil && user.RepoURL != nil {
			repoURL = *user.RepoURL
		}
		data = data.With("RepoURL", repoURL)

	case navigation.ViewAdmin:
		return h.adminData(r, data)

	case navigation.ViewLogin:
		data = data.With("LoginError", LoginErrorMessage(r.URL.Query().Get("error"))).
			With("SignInURL", signInURL(r.URL.Query().Get("redirect")))
	}
	return data, nil
}

func (h *PageHandlers) adminData(r *http.Request, data PageData) (PageData, error) {
	ctx := r.Context()
	users, err := h.Users.List(ctx)
	if err != nil {
		return data, err
	}
	data = data.With("Users", users).With("HistoryFor", "").With("History", nil)

	if netID := strings.TrimSpace(r.URL.Query().Get("netId")); netID != "" {
		history, err := h.Users.RepoHistory(ctx, model.RepoHistoryFilter{NetID: netID})
		if err != nil {
			return data, err
		}
		data = data.With("HistoryFor", netID).With("History", history)
	}
	return data, nil
}

// Register handles the registration form.
// POST /register, mounted behind the register guard.
func (h *PageHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repoURL := r.PostFormValue("repo_url")
	rerender := func(status int, msg string) {
		data := NewPageData(r, navigation.ViewRegister, viewTitles[navigation.ViewRegister]).
			With("RepoURL", repoURL).
			WithFieldError("repo_url", msg)
		h.render(w, status, data)
	}

	fv := validation.New().Validate("repo_url", repoURL,
		validation.Required("Repository URL", maxRepoURLLen), validation.HTTPSURL())
	if !fv.Valid() {
		rerender(http.StatusBadRequest, fv.Errors()["repo_url"])
		return
	}

	if _, err := h.Users.Register(ctx, CurrentNetID(ctx), model.RegisterRequest{RepoURL: repoURL}); err != nil {
		if status, msg, ok := formError(err); ok {
			rerender(status, msg)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// validateAdminForm checks the per-user admin form before it reaches the service.
func validateAdminForm(r *http.Request) *validation.FieldValidator {
	return validation.New().
		Validate("first_name", r.PostFormValue("first_name"), validation.Optional("First name", maxNameLen)).
		Validate("last_name", r.PostFormValue("last_name"), validation.Optional("Last name", maxNameLen)).
		Validate("repo_url", r.PostFormValue("repo_url"),
			validation.Optional("Repository URL", maxRepoURLLen), validation.HTTPSURL()).
		Validate("role", r.PostFormValue("role"), validation.OneOf("Role", roleOptions))
}

// AdminUpdateUser handles the per-user form on the admin page.
// POST /admin/users/{netId}, mounted behind the admin guard. Empty fields are left unchanged.
func (h *PageHandlers) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	netID := r.PathValue("netId")

	if fv := validateAdminForm(r); !fv.Valid() {
		_, msg := fv.First()
		h.renderAdminError(w, r, http.StatusBadRequest, netID, msg)
		return
	}

	req := model.AdminUpdateRequest{
		FirstName: formValuePtr(r, "first_name"),
		LastName:  formValuePtr(r, "last_name"),
		RepoURL:   formValuePtr(r, "repo_url"),
		Role:      formValuePtr(r, "role"),
	}
	if _, err := h.Users.AdminUpdate(ctx, CurrentNetID(ctx), netID, req); err != nil {
		if status, msg, ok := formError(err); ok {
			h.renderAdminError(w, r, status, netID, msg)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// renderAdminError re-renders the admin page with a message about one user's row.
func (h *PageHandlers) renderAdminError(w http.ResponseWriter, r *http.Request, status int, netID, msg string) {
	data, err := h.adminData(r, NewPageData(r, navigation.ViewAdmin, viewTitles[navigation.ViewAdmin]))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data.Error = netID + ": " + msg
	h.render(w, status, data)
}

// NotFound renders the not-found page for unmatched paths.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, NewPageData(r, viewNotFound, viewTitles[viewNotFound]))
}

// signInURL links to the provider login, carrying a forwarded same-origin destination
// so the callback returns the user where they started.
func signInURL(redirect string) string {
	const login = "/auth/login"
	if redirect == "" {
		return login
	}
	dest := safeRedirectPath(redirect)
	if dest == "/" {
		return login
	}
	return login + "?" + url.Values{"redirect_uri": {dest}}.Encode()
}

func formValuePtr(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// formError maps errors a user can fix to a status and message for re-rendering the form.
func formError(err error) (int, string, bool) {
	appErr, ok := apperrors.As(err)
	if !ok {
		return 0, "", false
	}
	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeConflict, apperrors.ErrCodeForbidden, apperrors.ErrCodeNotFound:
		return appErr.HTTPStatus(), appErr.Message, true
	default:
		return 0, "", false
	}
}

func (h *PageHandlers) render(w http.ResponseWriter, status int, data PageData) {
	if h.T == nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if err := h.T.Render(w, status, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *PageHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "page request failed",
		"path", r.URL.Path, "error", err)
	h.render(w, http.StatusInternalServerError, NewPageData(r, viewError, viewTitles[viewError]))
}
