// Package views renders the storefront's HTML pages from embedded
// templates.
package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/bloomcart/bloomcart/pkg/logger"
)

//go:embed templates/*.html
var files embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"index", "login", "register", "profile"} {
		pages[name] = template.Must(template.ParseFS(files,
			"templates/layout.html", "templates/"+name+".html"))
	}
}

// Flash is a one-shot notice surfaced on the next rendered page.
type Flash struct {
	Level   string // "success" or "danger"
	Message string
}

// Page is the envelope every template receives.
type Page struct {
	Title    string
	UserID   uint
	Username string
	Flash    *Flash
	Errors   map[string]string
	Data     interface{}
}

// Error returns the validation message for a field, or "".
func (p Page) Error(field string) string {
	return p.Errors[field]
}

// LoggedIn reports whether the page is rendered for an authenticated user.
func (p Page) LoggedIn() bool { return p.UserID != 0 }

// Render writes the named page with status 200.
func Render(w http.ResponseWriter, name string, p Page) {
	RenderStatus(w, http.StatusOK, name, p)
}

// RenderStatus writes the named page with an explicit status code, used
// when re-rendering a form with validation errors.
func RenderStatus(w http.ResponseWriter, status int, name string, p Page) {
	tmpl, ok := pages[name]
	if !ok {
		logger.Error("views: unknown template", "name", name)
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", p); err != nil {
		logger.Error("views: render failed", "name", name, "error", err)
	}
}
