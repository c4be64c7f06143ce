package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrExhibitionNotFound = errors.New("exhibition not found")

	ErrLayoutNotFound = errors.New("exhibition layout not found")

	ErrStallNotFound = errors.New("stall not found in exhibition layout")

	ErrStallUnavailable = errors.New("stall is not available for booking")

	ErrInvalidTransition = errors.New("invalid booking status transition")
)
