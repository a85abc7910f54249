package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/reliefpc/clinic-portal/internal/patients"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login.html",
	"dashboard.html",
	"patients.html",
	"patient_form.html",
	"details.html",
	"revisit.html",
	"edit_patient.html",
	"edit_visit.html",
	"appointments.html",
	"analytics.html",
}

var templateFuncs = template.FuncMap{
	"formatDate": formatDate,
	"truncate":   truncate,
	"add1":       func(i int) int { return i + 1 },
}

// formatDate renders a wire date for display; malformed input is shown
// as-is rather than hidden.
func formatDate(s string) string {
	if s == "" {
		return ""
	}
	t, ok := patients.ParseVisitDate(s)
	if !ok {
		return s
	}
	return t.Format("02 Jan 2006")
}

func truncate(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Templates holds the parsed page templates, each combined with the
// shared layout and navbar.
type Templates struct {
	pages map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/navbar.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("web: parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Templates{pages: pages}, nil
}

// Render executes a page template into w.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("web: unknown template %s", page)
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		return fmt.Errorf("web: render %s: %w", page, err)
	}
	return nil
}
