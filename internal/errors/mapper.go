// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// HTTPStatus converts repo/infra errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return 499 // client closed request

	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports whether err means the row simply is not there yet,
// as opposed to the store failing.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
