package models

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to the API boundary. Unexpected persistence failures
// are wrapped separately and must not match any of these.
var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrCarNotFound       = errors.New("car not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrLicenseMissing    = errors.New("no verified driving licence on file")
	ErrInvalidDateRange  = errors.New("invalid booking date range")
	ErrLocationMismatch  = errors.New("pickup city does not match car location")
	ErrCarUnavailable    = errors.New("car is not available for the requested dates")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("illegal booking status transition")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrAlreadyRejected   = errors.New("booking is already rejected")
	ErrNotAllowed        = errors.New("operation not allowed for this user")
	ErrPaymentFailed     = errors.New("payment verification failed")
)

// LocationMismatchError carries the car's actual city so the caller can tell
// the customer where the car really is.
type LocationMismatchError struct {
	City string
}

func (e *LocationMismatchError) Error() string {
	return fmt.Sprintf("pickup city does not match car location: car is located in %s", e.City)
}

func (e *LocationMismatchError) Unwrap() error {
	return ErrLocationMismatch
}
