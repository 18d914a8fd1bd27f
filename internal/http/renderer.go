package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/softwareconstruction240/autograder/internal/http/uiutil"
)

// ContentTemplateFor maps a view name to the template that renders its body.
func ContentTemplateFor(view string) string {
	return view + "-content"
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing layout.tmpl and pages/*.tmpl (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}

	var t *template.Template
	t, err := template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// HasView reports whether a content template exists for view.
func (r *TemplateRenderer) HasView(view string) bool {
	return r.t.Lookup(ContentTemplateFor(view)) != nil
}

// Render writes the full page for data.View with the given status.
// The page is rendered to a buffer first so a template failure never sends a partial page.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, data PageData) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("view", data.View),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("view", data.View),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func templateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		"renderView": func(view string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(view), data); err != nil {
				return "", fmt.Errorf("render view %q: %w", view, err)
			}
			// #nosec G203 - produced by our own html/template set; values were escaped during ExecuteTemplate.
			return template.HTML(buf.String()), nil
		},
		"friendlyTime": friendlyTime,
		"relativeTime": relativeTime,
	}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(toTime(ts))
}

func relativeTime(ts any) string {
	return uiutil.FriendlyRelativeTime(toTime(ts), time.Now())
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}
