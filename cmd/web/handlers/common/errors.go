package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorPayload is the JSON error shape the front end expects.
type errorPayload struct {
	Error string `json:"error"`
}

// ErrBadRequest writes a 400 with a JSON error payload.
func ErrBadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorPayload{Error: msg})
}

// ErrNotFound writes a 404 with a JSON error payload.
func ErrNotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorPayload{Error: msg})
}

// ErrInternal writes a 500 with a JSON error payload.
func ErrInternal(c echo.Context, msg string) error {
	return c.JSON(http.StatusInternalServerError, errorPayload{Error: msg})
}
