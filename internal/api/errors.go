package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is maps status codes onto the package sentinels so callers can use errors.Is.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == fiber.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == fiber.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == fiber.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == fiber.StatusNotFound
	case ErrConflict:
		return e.StatusCode == fiber.StatusConflict
	}
	return false
}

func newHTTPError(method, path string, code int, body []byte) *HTTPError {
	herr := &HTTPError{Method: method, Path: path, StatusCode: code}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		herr.Message = payload.Message
		if herr.Message == "" {
			herr.Message = payload.Error
		}
	} else {
		herr.Message = strings.TrimSpace(string(body))
	}
	return herr
}
