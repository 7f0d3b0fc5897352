package apidocs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAPI_Valid(t *testing.T) {
	doc := TokenAPI()
	require.NoError(t, doc.Validate(context.Background()))

	assert.NotNil(t, doc.Paths.Find("/api/token"))
	assert.NotNil(t, doc.Paths.Find("/api/verify-token"))
	assert.NotNil(t, doc.Paths.Find("/api/user-info"))
}

func TestDoc(t *testing.T) {
	specJSON, err := TokenAPI().MarshalJSON()
	require.NoError(t, err)

	e := echo.New()
	e.Pre(Doc("/api", specJSON, WithTitle("Token API")))
	e.GET("/api/other", func(c echo.Context) error {
		return c.String(http.StatusOK, "passed through")
	})

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := serve("/api/apidocs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Token API</title>")
	assert.Contains(t, rec.Body.String(), `data-url="/api/apispec.json"`)

	rec = serve("/api/apispec.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/api/user-info"`)

	rec = serve("/api/other")
	assert.Equal(t, "passed through", rec.Body.String())
}

func TestDoc_Authorizer(t *testing.T) {
	e := echo.New()
	e.Pre(Doc("/api", []byte(`{}`), WithAuthorizer(func(*http.Request) bool { return false })))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/apidocs", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
