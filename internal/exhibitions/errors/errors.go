package errors

import "errors"

var (
	ErrNotFound = errors.New("exhibition not found")

	ErrInvalidID = errors.New("invalid exhibition ID format")

	ErrLayoutNotFound = errors.New("layout not found")

	ErrStallTypeNotFound = errors.New("stall type not found")
)
