package httpx

import (
	"net/http"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

// PageData is the model every page template receives.
type PageData struct {
	Title       string
	View        string
	State       domainauth.State
	Flash       string
	Error       string
	FieldErrors map[string]string
	// CSRFToken must be posted back by forms as csrf_token.
	CSRFToken string
	// Data holds view-specific values.
	Data map[string]any
}

// NewPageData starts page data for view using the request's navigation state.
func NewPageData(r *http.Request, view, title string) PageData {
	return PageData{
		Title:     title,
		View:      view,
		State:     StateFromContext(r.Context()),
		CSRFToken: CSRFTokenFromContext(r.Context()),
		Data:      map[string]any{},
	}
}

// With adds a view-specific value.
func (p PageData) With(key string, value any) PageData {
	if p.Data == nil {
		p.Data = map[string]any{}
	}
	p.Data[key] = value
	return p
}

// WithFieldError records a validation message for a form field.
func (p PageData) WithFieldError(field, msg string) PageData {
	if p.FieldErrors == nil {
		p.FieldErrors = map[string]string{}
	}
	p.FieldErrors[field] = msg
	return p
}
