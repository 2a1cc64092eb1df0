package domain

import "errors"

// Error kinds surfaced by the booking core. Callers match them with errors.Is;
// the HTTP layer maps each one to a stable status code.
var (
	ErrNotFound                = errors.New("not found")
	ErrAlreadyBooked           = errors.New("seat already booked")
	ErrNoSeatsAvailable        = errors.New("no seats available")
	ErrInvalidSchedule         = errors.New("invalid schedule")
	ErrForbidden               = errors.New("forbidden")
	ErrPaymentDeclined         = errors.New("payment declined")
	ErrCodeGenerationExhausted = errors.New("reservation code generation exhausted")
	ErrBookingClosed           = errors.New("booking is cancelled")
	ErrInvalidInput            = errors.New("invalid input")
	ErrStorage                 = errors.New("storage failure")
)
