package navigation

// Route names are stable identifiers other code may redirect to.
const (
	RouteHome     = "home"
	RouteHelp     = "help"
	RouteRegister = "register"
	RouteAdmin    = "admin"
	RouteLogin    = "login"
)

// View names rendered for each route.
const (
	ViewHome     = "home"
	ViewHelp     = "help-queue"
	ViewRegister = "register"
	ViewAdmin    = "admin"
	ViewLogin    = "login"
)

// HomePolicy sends visitors without a session to login (keeping the query so the
// login page can explain why), unfinished registrations to /register, and admins to /admin.
// The rules are mutually exclusive by order.
func HomePolicy() Policy {
	return Policy{
		{Name: "login-required", When: notLoggedIn, Then: redirectWithQuery(RouteLogin)},
		{Name: "registration-required", When: notFullyRegistered, Then: redirect("/register")},
		{Name: "admin-home", When: isAdmin, Then: redirect("/admin")},
	}
}

// RegisterPolicy bounces finished registrations home before looking at the login state,
// so a fully registered visitor without a session lands on / (which then sends them to login).
func RegisterPolicy() Policy {
	return Policy{
		{Name: "already-registered", When: fullyRegistered, Then: redirect("/")},
		{Name: "login-required", When: notLoggedIn, Then: redirect(RouteLogin)},
	}
}

// AdminPolicy treats a missing user the same as any non-admin role.
func AdminPolicy() Policy {
	return Policy{
		{Name: "admin-required", When: notAdmin, Then: redirect("/")},
	}
}

// DefaultRoutes returns the application's route definitions in declaration order.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteHome, Path: "/", View: ViewHome, Guard: HomePolicy().Guard()},
		{Name: RouteHelp, Path: "/help", View: ViewHelp},
		{Name: RouteRegister, Path: "/register", View: ViewRegister, Guard: RegisterPolicy().Guard()},
		{Name: RouteAdmin, Path: "/admin", View: ViewAdmin, Guard: AdminPolicy().Guard()},
		{Name: RouteLogin, Path: "/login", View: ViewLogin},
	}
}

// Default builds the application's route table.
func Default() *Table {
	return MustNew(DefaultRoutes()...)
}
