package service

import "errors"

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrInvalidTransition = errors.New("invalid transition") // 409
	ErrConflict          = errors.New("conflict")           // 409
)
