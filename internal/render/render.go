// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface
// and the public site. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"primarycat/internal/middleware"
	"primarycat/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active navigation section (e.g., "posts", "categories")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
	Status    int            // HTTP status; 200 when zero
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	admin   map[string]*template.Template
	public  map[string]*template.Template
	funcMap template.FuncMap
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing the embedded templates. Each admin page
// is paired with base.html and each public page with layout.html.
// When devMode is true, pages carry a development banner.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			"isDev": func() bool {
				return devMode
			},
			// catIndent returns a category name with non-breaking space
			// indentation based on depth.
			"catIndent": func(depth int, name string) string {
				if depth == 0 {
					return name
				}
				return strings.Repeat("\u00A0\u00A0\u00A0\u00A0", depth) + name
			},
			"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
				return ptr != nil && *ptr == val
			},
			"join": strings.Join,
		},
	}

	if err := r.parseDir("templates/admin", "base.html", r.admin); err != nil {
		return nil, err
	}
	if err := r.parseDir("templates/public", "layout.html", r.public); err != nil {
		return nil, err
	}
	return r, nil
}

// parseDir pairs every page in dir with its layout and stores the result
// under the page name without extension.
func (r *Renderer) parseDir(dir, layout string, into map[string]*template.Template) error {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layout {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] && layout == "base.html" {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, path.Join(dir, name))
		} else {
			tmpl, err = template.New(layout).Funcs(r.funcMap).ParseFS(
				templateFS, path.Join(dir, layout), path.Join(dir, name),
			)
		}
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		into[tmplName] = tmpl
	}
	return nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}
	if isHTMX(r) {
		execName = "content"
	}

	// Buffer so a failed execution does not leave a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("admin template failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	_, _ = buf.WriteTo(w)
}

// Public renders a public page inside the site layout. The bytes are
// returned rather than written so callers can cache them.
func (rn *Renderer) Public(name string, data any) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("public template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("render public %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
