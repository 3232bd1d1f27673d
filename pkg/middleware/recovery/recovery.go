// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/nimburion/catalog-api/pkg/controller"
	"github.com/nimburion/catalog-api/pkg/middleware/requestid"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// ErrorResponse is the body written after a recovered panic.
type ErrorResponse = controller.ErrorResponse

// Recovery catches panics with defer/recover, logs the panic with its stack
// trace and responds with HTTP 500 when nothing has been written yet.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				requestID := requestid.GetRequestID(c.Request().Context())
				log.Error("panic recovered",
					"request_id", requestID,
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if c.Response().Written() {
					return
				}
				if writeErr := controller.Error(c, controller.NewInternalError("panic", fmt.Errorf("%v", r))); writeErr != nil {
					log.Error("failed to send error response", "request_id", requestID, "error", writeErr)
				}
				err = nil
			}()

			return next(c)
		}
	}
}
