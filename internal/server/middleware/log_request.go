package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

type LogRequestConfig struct {
	Logger       Logger
	Enabled      func(c echo.Context) bool
	KeyAndValues func(c echo.Context) []any
}

// LogRequest writes one structured line per request.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = func(echo.Context) bool { return true }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []any{
				"method", c.Request().Method,
				"path", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(c),
			}
			if err != nil {
				args = append(args, "error", err.Error())
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}

			if c.Response().Status >= 500 {
				config.Logger.Errorw("http request", args...)
			} else {
				config.Logger.Infow("http request", args...)
			}
			return nil
		}
	}
}
