package views

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/middlewares"
	"account-portal/app/server/utils"
	"embed"
	"fmt"
	"github.com/labstack/echo/v4"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page 是所有页面共用的数据
type Page struct {
	Title   string
	User    *middlewares.Identity
	Flashes []middlewares.Flash
	Data    interface{}
}

// Renderer 为每个页面单独解析 layout + 页面模板
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"roleLabel": func(role string) string {
		if label, ok := constants.RoleLabels[role]; ok {
			return label
		}
		return constants.RoleLabels[constants.RoleRegular]
	},
	"deref": utils.Deref,
	"datetime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"add": func(a, b int) int { return a + b },
	"seq": func(from, to int) []int {
		var s []int
		for i := from; i <= to; i++ {
			s = append(s, i)
		}
		return s
	},
	"before": func(page int, maxPage int64) bool { return int64(page) < maxPage },
}

func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		tmpl, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[path.Base(file)] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
