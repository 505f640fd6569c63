package service

import "errors"

// Error kinds surfaced to handlers. Wrap with fmt.Errorf("%w: ...") so the
// transport layer can map them with errors.Is while keeping the message.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrItemNotFound      = errors.New("invalid item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
)
