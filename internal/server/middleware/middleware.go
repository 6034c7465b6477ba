package middleware

import (
	"github.com/labstack/echo/v4"
)

// Skipper decides whether a middleware should pass the request through.
type Skipper func(c echo.Context) bool

func DefaultSkipper(echo.Context) bool { return false }

// Logger is the subset of the structured logger the middleware needs.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}
