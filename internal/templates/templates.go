// Package templates provides the embedded dashboard page templates.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var fs embed.FS

// Parse parses every embedded page template.
func Parse() (*template.Template, error) {
	return template.ParseFS(fs, "*.html")
}
