package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"projeto_nfc/internal/domain/model"
	"projeto_nfc/internal/platform/flash"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex     = "index.html"
	pageRegister  = "register.html"
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
)

// Pages holds one parsed template set per page, each joined with the layout.
type Pages struct {
	sets map[string]*template.Template
}

func NewPages() (*Pages, error) {
	p := &Pages{sets: make(map[string]*template.Template)}
	for _, name := range []string{pageIndex, pageRegister, pageLogin, pageDashboard} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

type formValues struct {
	Username string
	Email    string
}

type pageData struct {
	Title    string
	SignedIn bool
	Flash    *flash.Message
	Form     formValues
	Account  *model.Account
}

// render executes into a buffer first so a template fault never leaves a
// half-written page behind. Write errors to the client are not reported.
func (p *Pages) render(w http.ResponseWriter, status int, name string, data pageData) error {
	t, ok := p.sets[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
