package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentranbao-ct/product-service/pkg/util"
)

const metricsPath = "/metrics"

// Metrics records request duration by method, path and status, and
// serves the prometheus endpoint on /metrics.
func Metrics() echo.MiddlewareFunc {
	histogram, err := util.GetHistogramVec("http_request_duration_seconds", "method", "path", "status")
	if err != nil {
		panic(err)
	}
	promHandler := echo.WrapHandler(promhttp.Handler())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().RequestURI == metricsPath {
				return promHandler(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// c.Path() is the route template, not the raw URI, so
			// cardinality stays bounded
			histogram.
				WithLabelValues(
					c.Request().Method,
					c.Path(),
					strconv.Itoa(c.Response().Status),
				).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
