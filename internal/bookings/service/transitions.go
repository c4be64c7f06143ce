package service

import (
	"expostall/pkg/model"
)

// allowedTransitions maps a booking status to the statuses it may move to.
// Cancelled and rejected are terminal. A confirmed booking never goes back
// to pending; releasing the stalls requires a cancellation.
var allowedTransitions = map[string][]string{
	model.BookingPending:   {model.BookingConfirmed, model.BookingApproved, model.BookingRejected, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingApproved, model.BookingCancelled},
	model.BookingApproved:  {model.BookingConfirmed, model.BookingCancelled},
	model.BookingRejected:  {},
	model.BookingCancelled: {},
}

// CanTransition reports whether a booking may move from one status to
// another. Same-status updates are rejected; they carry no state change.
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// stallStatusFor returns the layout stall status implied by a booking
// status, and whether the transition touches the layout at all. Approval
// is a review step and leaves stalls as they are.
func stallStatusFor(bookingStatus string) (string, bool) {
	switch bookingStatus {
	case model.BookingConfirmed:
		return model.StallBooked, true
	case model.BookingPending:
		return model.StallReserved, true
	case model.BookingCancelled, model.BookingRejected:
		return model.StallAvailable, true
	default:
		return "", false
	}
}

// holdsStalls reports whether a booking in the given status currently
// occupies its stalls in the layout.
func holdsStalls(status string) bool {
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingApproved:
		return true
	default:
		return false
	}
}
