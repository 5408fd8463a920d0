package errors

import "errors"

// Sentinel errors returned by the booking repository. The service layer maps
// them to API error codes, keeping Mongo details out of the HTTP surface.
var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")
)
