// Package web holds the server-rendered page.
package web

import (
	"embed"
	"html/template"

	"imagequery/internal/extraction"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate is the name of the single form page.
const PageTemplate = "index.html"

var funcs = template.FuncMap{
	"formatFloat": extraction.FormatFloat,
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates that panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
