// Package autograder provides embedded assets for production builds.
package autograder

import "embed"

// In dev mode templates and static files are read from disk for hot reloading;
// otherwise they are served from these embedded filesystems.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed all:web/templates
var TemplateFS embed.FS
