// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog
// pages and the admin interface. Templates are embedded in the binary;
// public pages can also be rendered to a buffer so they can be stored in
// the page cache.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"

	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/session"
)

//go:embed templates/public/*.html templates/admin/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active nav section (e.g., "posts", "taxonomy")
	Session   *session.Data  // Current admin session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and fetch headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists templates that render as full HTML pages
// without a base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"admin/login":     true,
	"admin/login_2fa": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with its section's base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			// safeHTML marks pre-rendered markdown output as trusted HTML.
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s)
			},
			// statusLabel turns a post status into its display name.
			"statusLabel": func(s models.Status) string {
				switch s {
				case models.StatusPublic:
					return "Public"
				case models.StatusPrivate:
					return "Private"
				case models.StatusDraft:
					return "Draft"
				}
				return "Unknown"
			},
			// pageSeq returns 1..n for pagination links.
			"pageSeq": func(n int) []int {
				seq := make([]int, n)
				for i := range seq {
					seq[i] = i + 1
				}
				return seq
			},
		},
	}

	for _, section := range []string{"public", "admin"} {
		entries, err := templateFS.ReadDir("templates/" + section)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}

		for _, e := range entries {
			if e.IsDir() || e.Name() == "base.html" {
				continue
			}

			tmplName := section + "/" + strings.TrimSuffix(e.Name(), ".html")
			file := path.Join("templates", section, e.Name())

			var tmpl *template.Template
			var parseErr error

			if standaloneTemplates[tmplName] {
				tmpl, parseErr = template.New(e.Name()).Funcs(r.funcMap).ParseFS(
					templateFS, file,
				)
			} else {
				base := path.Join("templates", section, "base.html")
				tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
					templateFS, base, file,
				)
			}

			if parseErr != nil {
				return nil, fmt.Errorf("parse template %s: %w", e.Name(), parseErr)
			}

			r.templates[tmplName] = tmpl
		}
	}

	return r, nil
}

// Render executes the named template into wr. Handlers that cache public
// pages render into a buffer first and write the bytes out themselves.
func (rn *Renderer) Render(wr io.Writer, name string, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = path.Base(name) + ".html"
	}

	return tmpl.ExecuteTemplate(wr, execName, data)
}

// Page renders a full page directly to the response, injecting the CSRF
// token and session from the request.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}

	// Inject CSRF token from the request cookie (set by CSRF middleware).
	if data.CSRFToken == "" {
		data.CSRFToken = middleware.GetCSRFToken(r)
	}

	// Inject session from context.
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := rn.Render(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
