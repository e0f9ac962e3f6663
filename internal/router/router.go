// Package router wires the HTTP routes to their handlers and normalizes
// echo's routing errors into the API's JSON error envelope.
package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
)

// Register mounts every route of the API. cache, when non-nil, is
// applied to the hot list endpoints only; mutation routes are never
// cached.
func Register(e *echo.Echo, rh *handler.ReservationHandler, th *handler.TableHandler, cache echo.MiddlewareFunc) {
	listMW := []echo.MiddlewareFunc{}
	if cache != nil {
		listMW = append(listMW, cache)
	}

	e.GET("/healthz", handler.Health)

	e.GET("/reservations", rh.List, listMW...)
	e.POST("/reservations", rh.Create)
	e.GET("/reservations/:reservation_id", rh.Read)
	e.PUT("/reservations/:reservation_id", rh.Update)
	e.PUT("/reservations/:reservation_id/status", rh.UpdateStatus)

	e.GET("/tables", th.List, listMW...)
	e.POST("/tables", th.Create)
	e.GET("/tables/:table_id", th.Read)
	e.PUT("/tables/:table_id/seat", th.Seat)
	e.DELETE("/tables/:table_id/seat", th.Finish)
}

// HTTPErrorHandler renders errors raised outside the handlers (unknown
// paths, unsupported verbs on known paths, malformed requests) with the
// same {"error": ...} envelope the handlers use. Stack traces and
// internal error details never reach the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if s, ok := httpErr.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(code)
		}
	}
	if code == http.StatusMethodNotAllowed {
		message = fmt.Sprintf("%s not allowed for %s", c.Request().Method, c.Request().URL.Path)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": message})
}
