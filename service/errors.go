package service

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the booking API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
	// Message is the server's {"error": ...} text when the body carried one.
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return "cinema api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("cinema api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cinema api error: %s: %s", e.Status, e.Body)
}

// ConnectionError means the request produced no response at all.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-side rejection raised before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether the API rejected the session cookie.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func IsConnection(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// UserMessage renders an error from this package as text for the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if errors.Is(err, ErrNotCancellable) {
		return "Compra não pode ser cancelada"
	}
	if IsConnection(err) {
		return "Erro de conexão. Tente novamente."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			return "Usuário não autenticado"
		}
		return "Erro interno do servidor"
	}
	return err.Error()
}
