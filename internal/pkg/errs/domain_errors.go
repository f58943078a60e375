package errs

import "errors"

// Sentinel errors shared between the usecase and handler layers
var (
	// Catalog errors
	ErrVillaNotFound = errors.New("villa not found")

	// Booking errors
	ErrBookingNotFound        = errors.New("booking not found")
	ErrSoldOut                = errors.New("no units available for the requested stay")
	ErrInvalidStateTransition = errors.New("invalid booking state transition")
	ErrUnitUnavailable        = errors.New("unit is not available for assignment")
	ErrInvalidStay            = errors.New("invalid stay period")
	ErrDomainValidation       = errors.New("domain validation error")

	// Payment errors
	ErrPaymentProvider       = errors.New("payment provider call failed")
	ErrPaymentSessionMissing = errors.New("booking has no payment session")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
