// Package view renders the server-side pages. Every page is parsed together
// with the shared layout at startup.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/frahmantamala/task-management/internal/core/identity"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Data is the template payload. BaseHandler adds "Flash" and "Identity".
type Data map[string]interface{}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	return NewFromFS(templateFS)
}

// NewFromFS parses every templates/<dir>/<page>.html in fsys. Pages are keyed
// by "<dir>/<page>".
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), path.Ext(file))
		tmpl, err := template.New(path.Base(layoutFile)).
			Funcs(funcs()).
			ParseFS(fsys, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Render executes page into w. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(layoutFile), data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"roleTitle": func(r identity.Role) string {
			return r.Title()
		},
		"deref": func(p *int) string {
			if p == nil {
				return ""
			}
			return fmt.Sprint(*p)
		},
	}
}
