package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidAmount        = errors.New("invalid monetary amount")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotEditable          = errors.New("invoice is no longer editable")
	ErrAlreadyPaid          = errors.New("invoice already paid")
	ErrConflict             = errors.New("invoice was modified concurrently")
	ErrUnauthorizedCallback = errors.New("payment callback verification failed")
	ErrDeliveryFailed       = errors.New("email delivery failed")
)
