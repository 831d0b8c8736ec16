package services

import (
	"errors"
	"fmt"

	"github.com/hypernova-labs/autolavado-service/internal/database"
)

// Errores tipados de la capa de servicios. Se envuelven con %w y el API los
// traduce a códigos HTTP.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrUpstream   = errors.New("upstream error")
	ErrInternal   = errors.New("internal error")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// upstreamError conserva el *culqi.Error original para que el API pueda leer merchant_message
func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// storeError traduce errores del repositorio a la taxonomía de servicios
func storeError(what string, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFoundError(what)
	case errors.Is(err, database.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, what, err)
	}
}
