package payment

import "errors"

var (
	ErrNotFound         = errors.New("payment not found")
	ErrForbidden        = errors.New("forbidden")
	ErrBookingNotReady  = errors.New("booking is not completed")
	ErrAlreadyConfirmed = errors.New("payment already confirmed")
	ErrInvalidAmount    = errors.New("amount must be positive")
)
