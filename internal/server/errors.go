package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-service/internal/models"
)

// errorHandler maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with the generic status text, never the raw error.
func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			// already shaped by the handler
		case errors.Is(err, models.ErrNotFound):
			he = echo.NewHTTPError(http.StatusNotFound, "not found")
		case errors.Is(err, models.ErrForbidden):
			he = echo.NewHTTPError(http.StatusForbidden, "forbidden")
		case errors.Is(err, models.ErrConflict):
			he = echo.NewHTTPError(http.StatusConflict, "conflict")
		default:
			c.Logger().Error(err)
			he = &echo.HTTPError{
				Code:    http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
			}
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(he.Code)
		} else {
			respErr = c.JSON(he.Code, he)
		}
		if respErr != nil {
			c.Logger().Error(respErr)
		}
	}
}
