package handlers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

func (a *App) HealthCheck(c echo.Context) error {
	if err := a.st.Ping(c.Request().Context()); err != nil {
		a.l.Error("health check failed", zap.Error(err))
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
