// Package web holds the embedded HTML templates and the gin renderer that
// serves them. Every page is parsed together with its layout and the shared
// partials; pages under public/ and auth/ use the site layout, pages under
// admin/ and portal/ use the dashboard layout.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"enscho/internal/access"
	"enscho/internal/models"
)

//go:embed templates
var files embed.FS

// StaticFS is the embedded stylesheet and script directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(files, "templates/static")
	if err != nil {
		panic(err)
	}
	return sub
}

var layouts = map[string]string{
	"public": "templates/layouts/site.html",
	"auth":   "templates/layouts/site.html",
	"admin":  "templates/layouts/dash.html",
	"portal": "templates/layouts/dash.html",
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page. Page names are "{dir}/{file}" without extension,
// e.g. "admin/posts".
func New(schoolName string, policy *access.Policy) (*Renderer, error) {
	funcs := Funcs(schoolName, policy)
	r := &Renderer{pages: make(map[string]*template.Template)}

	for dir, layout := range layouts {
		entries, err := fs.ReadDir(files, "templates/"+dir)
		if err != nil {
			return nil, fmt.Errorf("read %s templates: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || path.Ext(e.Name()) != ".html" {
				continue
			}
			name := dir + "/" + strings.TrimSuffix(e.Name(), ".html")
			t, err := template.New(name).Funcs(funcs).ParseFS(files,
				layout, "templates/partials/*.html", "templates/"+dir+"/"+e.Name())
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			r.pages[name] = t
		}
	}
	return r, nil
}

// Has reports whether a page was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance implements gin's render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic("web: unknown page " + name)
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Funcs are the helpers available to every template.
func Funcs(schoolName string, policy *access.Policy) template.FuncMap {
	return template.FuncMap{
		"school": func() string { return schoolName },
		"year":   func() int { return time.Now().Year() },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("02 Jan 2006")
		},
		"datetime": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
		"pubdate": func(p *models.Post) string {
			if p.PublishedAt != nil {
				return p.PublishedAt.Format("02 Jan 2006")
			}
			return p.CreatedAt.Format("02 Jan 2006")
		},
		"can": func(role models.Role, section string) bool {
			return policy.AdminSectionAllowed(role, section)
		},
		"truncate":   truncate,
		"paragraphs": paragraphs,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"statuses":   func() []models.RegistrationStatus { return models.RegistrationStatuses },
		"roles":      func() []models.Role { return models.Roles },
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// paragraphs splits stored content on blank lines. Content is rendered as
// escaped text, one <p> per paragraph.
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
