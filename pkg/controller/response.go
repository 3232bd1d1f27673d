package controller

import (
	"net/http"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Success sends data unwrapped with HTTP 200 OK.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Error sends the error response mapped from err.
func Error(c router.Context, err error) error {
	status, body := MapError(err)
	return c.JSON(status, body)
}
