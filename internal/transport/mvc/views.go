package mvc

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/contoso/university/internal/utils/middleware"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

const (
	layoutTemplate = "layout"
	sharedDir      = "Shared"
)

// ErrViewNotFound is returned when rendering an unknown view.
var ErrViewNotFound = errors.New("view not found")

// Views renders "Controller/Action" views inside the shared layout. It
// implements gin's render.HTMLRender.
type Views struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Views)(nil)

// DefaultFuncs are available to every view.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// LoadViews parses the views in fsys. Shared/*.html holds the layout and
// partials; every other "<Controller>/<Action>.html" is one view. funcs
// extend DefaultFuncs.
func LoadViews(fsys fs.FS, funcs template.FuncMap) (*Views, error) {
	base := template.New("views").Funcs(DefaultFuncs()).Funcs(funcs)
	base, err := base.ParseFS(fsys, path.Join(sharedDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse shared views: %w", err)
	}
	if base.Lookup(layoutTemplate) == nil {
		return nil, fmt.Errorf("shared views define no %q template", layoutTemplate)
	}

	files, err := fs.Glob(fsys, "*/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{templates: map[string]*template.Template{}}
	for _, file := range files {
		if path.Dir(file) == sharedDir {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if t, err = t.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse view %s: %w", file, err)
		}
		v.templates[viewKey(strings.TrimSuffix(file, ".html"))] = t
	}
	return v, nil
}

func viewKey(name string) string {
	return strings.ToLower(name)
}

// Has reports whether a view named name exists.
func (v *Views) Has(name string) bool {
	_, ok := v.templates[viewKey(name)]
	return ok
}

// Instance implements render.HTMLRender.
func (v *Views) Instance(name string, data any) render.Render {
	t, ok := v.templates[viewKey(name)]
	if !ok {
		return missingView{name: name}
	}
	return render.HTML{Template: t, Name: layoutTemplate, Data: data}
}

type missingView struct {
	name string
}

func (m missingView) Render(http.ResponseWriter) error {
	return fmt.Errorf("%w: %s", ErrViewNotFound, m.name)
}

func (m missingView) WriteContentType(w http.ResponseWriter) {}

// ViewData is the value every view is executed with.
type ViewData struct {
	Title     string
	Model     any
	User      *requestctx.Principal
	RequestID string
	Year      int
}

// View renders the view for the current request's endpoint unless name is
// given explicitly.
func View(c *gin.Context, status int, name, title string, model any) {
	if name == "" {
		if e := CurrentEndpoint(c); e != nil {
			name = e.Name()
		}
	}
	c.HTML(status, name, ViewData{
		Title:     title,
		Model:     model,
		User:      requestctx.PrincipalFrom(c.Request.Context()),
		RequestID: middleware.GetRequestID(c),
		Year:      time.Now().Year(),
	})
}
