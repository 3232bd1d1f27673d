// Package metrics records Prometheus metrics for HTTP requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/nimburion/catalog-api/pkg/middleware"
	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Metrics creates middleware that tracks the request duration histogram,
// the request counter and the in-flight gauge on reg.
// Paths are labelled with RouteLabel so object ids do not explode cardinality.
func Metrics(reg *metrics.Registry) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			reg.IncrementInFlight()
			defer reg.DecrementInFlight()

			start := time.Now()
			err := next(c)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}
			reg.RecordHTTPMetrics(
				c.Request().Method,
				middleware.RouteLabel(c.Request().URL.Path),
				status,
				time.Since(start),
			)
			return err
		}
	}
}
