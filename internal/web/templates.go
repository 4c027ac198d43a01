package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/erazemk/gestextintor/internal/advice"
	"github.com/erazemk/gestextintor/internal/auth"
	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/store"
	webembed "github.com/erazemk/gestextintor/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleName": model.RoleName,
		"statusClass": func(status model.ExtinguisherStatus) string {
			switch status {
			case model.StatusOperational:
				return "ok"
			case model.StatusMaintenance:
				return "warn"
			case model.StatusExpired:
				return "danger"
			case model.StatusNeedsReplacement:
				return "info"
			default:
				return ""
			}
		},
		"percent": func(value, total int) int {
			if total == 0 {
				return 0
			}
			return value * 100 / total
		},
		"orNone": func(s string) string {
			if s == "" {
				return "Nenhum"
			}
			return s
		},
	}
}

var pages = []string{
	"login.html",
	"register.html",
	"recovery.html",
	"dashboard.html",
	"extinguishers.html",
	"extinguisher_form.html",
	"assistant.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Active  string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Store      *store.Store
	Templates  *Templates
	JWTSecret  string
	Assistants *advice.Registry
}
