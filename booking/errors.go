package booking

import (
	"errors"
	"fmt"

	"cine-booking-cli/catalog"
	"cine-booking-cli/service"
)

var (
	ErrEmptySelection = errors.New("no seat selected")
	// ErrAuthenticationRequired means the selection was persisted and the
	// caller should send the user to the login flow.
	ErrAuthenticationRequired = errors.New("authentication required")
)

// RejectedError is a purchase the API refused with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("purchase rejected (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("purchase rejected (%d)", e.StatusCode)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// UserMessage renders a booking error for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *RejectedError
	switch {
	case errors.Is(err, ErrEmptySelection):
		return "Selecione pelo menos uma poltrona!"
	case errors.Is(err, ErrAuthenticationRequired):
		return "Você precisa estar logado para finalizar a compra."
	case errors.Is(err, catalog.ErrNotFound):
		return "Sessão não encontrada!"
	case errors.As(err, &rejected):
		if rejected.Message != "" {
			return rejected.Message
		}
		return "Erro ao processar compra."
	}
	return service.UserMessage(err)
}
