package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	autograder "github.com/softwareconstruction240/autograder"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/navigation"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthServiceInterface
	Users        UserService
	Table        *navigation.Table // defaults to navigation.Default()
	CookieDomain string
	// CallbackURL is the absolute OAuth redirect URL; derived from the request when empty.
	CallbackURL string
	// LogoutURL is where the browser goes after POST /auth/logout; defaults to /.
	LogoutURL string
	// TemplateFS overrides the template source (tests). Defaults by IsDev.
	TemplateFS   fs.FS
	HealthChecks []HealthCheck
	IsDev        bool         // serve templates and static files from disk
	Logger       *slog.Logger // optional
}

// NewRouter builds the application handler: navigation pages, forms, JSON API,
// auth endpoints, health, and static assets, wrapped in the standard middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := services.Table
	if table == nil {
		table = navigation.Default()
	}

	templateFS, err := resolveTemplateFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	pages := &PageHandlers{Table: table, Users: services.Users, T: tr, Logger: logger}
	api := &APIHandlers{Users: services.Users, Table: table}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		CallbackURL:  services.CallbackURL,
		LogoutURL:    services.LogoutURL,
		Logger:       logger,
	}

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger})

	mux := http.NewServeMux()
	registerPageRoutes(mux, pages, csrf)
	registerAPIRoutes(mux, api)
	registerAuthRoutes(mux, authHandlers)
	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	return Chain(mux,
		Recover(logger),
		LoadSession(SessionLoader{Auth: services.Auth, States: services.Users}),
		Logging(logger),
	), nil
}

func resolveTemplateFS(services RouterServices) (fs.FS, error) {
	if services.TemplateFS != nil {
		return services.TemplateFS, nil
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	return fs.Sub(autograder.TemplateFS, TemplatePathFromRoot)
}

// routePattern turns a table path into a ServeMux pattern. "/" matches only the root.
func routePattern(path string) string {
	if path == "/" {
		return "/{$}"
	}
	return path
}

// registerPageRoutes registers every table route plus the form posts and a not-found fallback.
// Pages carry the CSRF token their forms post back; form posts pass their page's guard
// before the token is checked so logged-out submissions still redirect to login.
func registerPageRoutes(mux *http.ServeMux, h *PageHandlers, csrf func(http.Handler) http.Handler) {
	for _, route := range h.Table.Routes() {
		mux.Handle("GET "+routePattern(route.Path), csrf(h.Route(route)))
	}
	mux.Handle("POST /register",
		h.Guarded(navigation.RouteRegister, csrf(http.HandlerFunc(h.Register))))
	mux.Handle("POST /admin/users/{netId}",
		h.Guarded(navigation.RouteAdmin, csrf(http.HandlerFunc(h.AdminUpdateUser))))
	mux.HandleFunc("GET /", h.NotFound)
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers) {
	authed := RequireAuth()
	admin := RequireRole(domainauth.RoleAdmin)

	mux.Handle("GET /api/me", authed(http.HandlerFunc(h.Me)))
	mux.Handle("PATCH /api/me/repo", authed(http.HandlerFunc(h.SetRepo)))
	mux.HandleFunc("GET /api/navigation", h.Navigation)

	mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(h.ListUsers)))
	mux.Handle("PATCH /api/admin/users/{netId}", admin(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("GET /api/admin/repo-history", admin(http.HandlerFunc(h.RepoHistory)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool) http.Handler {
	var root http.FileSystem
	if isDev {
		root = http.Dir(StaticPathFromRoot)
	} else {
		sub, err := fs.Sub(autograder.StaticFS, StaticPathFromRoot)
		if err != nil {
			root = http.Dir(StaticPathFromRoot)
		} else {
			root = http.FS(sub)
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(root)))
}

// hashedFilePattern matches content-hashed asset names such as app.abc12345.css.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and everything else not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
