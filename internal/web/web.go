// Package web holds the embedded HTML templates and static assets of the
// portal.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// FuncMap holds the helpers available to every template
var FuncMap = template.FuncMap{
	"pathEscape": url.PathEscape,
	// trustedHTML marks admin-authored solution text as safe markup
	"trustedHTML": func(s string) template.HTML { return template.HTML(s) },
}

// Templates parses every page template
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Static returns the stylesheet and script assets
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
