package booking

import "errors"

var (
	ErrNotFound     = errors.New("booking not found")
	ErrUnauthorized = errors.New("access denied")
	ErrInvalidState = errors.New("operation not valid for current booking status")
	ErrValidation   = errors.New("validation error")
)
