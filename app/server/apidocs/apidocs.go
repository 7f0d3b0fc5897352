package apidocs

import (
	"bytes"
	"html/template"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
)

type Opts func(*config)

// config 是文档中间件的设置
type config struct {
	Title   string
	SpecURL string
	// 返回 false 时响应 403
	Authorizer func(*http.Request) bool
}

func WithTitle(title string) Opts {
	return func(cfg *config) {
		cfg.Title = title
	}
}

func WithAuthorizer(authorizer func(*http.Request) bool) Opts {
	return func(cfg *config) {
		cfg.Authorizer = authorizer
	}
}

func renderPage(cfg *config) string {
	tmpl := template.Must(template.New("apidoc").Parse(pageTemplate))
	buf := bytes.NewBuffer(nil)
	_ = tmpl.Execute(buf, cfg)
	return buf.String()
}

// Doc 在 basePath 下提供文档页面 (apidocs) 与 JSON 格式的规范 (apispec.json)
func Doc(basePath string, specJSON []byte, opts ...Opts) echo.MiddlewareFunc {
	cfg := &config{
		Title:   "API documentation",
		SpecURL: path.Join(basePath, "apispec.json"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	docPath := path.Join(basePath, "apidocs")
	uiHTML := renderPage(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqPath := c.Request().URL.Path
			if reqPath != docPath && reqPath != cfg.SpecURL {
				return next(c)
			}

			if cfg.Authorizer != nil && !cfg.Authorizer(c.Request()) {
				return c.String(http.StatusForbidden, "Forbidden")
			}

			if reqPath == docPath {
				return c.HTML(http.StatusOK, uiHTML)
			}
			return c.JSONBlob(http.StatusOK, specJSON)
		}
	}
}

const pageTemplate = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <title>{{ .Title }}</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>

  <body>
    <script id="api-reference" data-url="{{ .SpecURL }}"></script>

    <script src="https://cdnjs.cloudflare.com/ajax/libs/scalar-api-reference/1.25.99/standalone.min.js" integrity="sha512-ai3lOYZ5efNXMYwnqhz0mnCaImbqfwLE1VCx9Y9nhB3OJX4/uegjIAoQtJHy3SILHp/gS1OlPCIeNFPZT5i2WQ==" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
  </body>
</html>`
