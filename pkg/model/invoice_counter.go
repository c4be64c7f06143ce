package model

// InvoiceCounter is the atomic per-(exhibition, year) invoice sequence.
// Allocation is a single $inc find-and-modify, never a count of existing
// bookings.
type InvoiceCounter struct {
	ID           string `json:"id,omitempty" bson:"_id,omitempty"`
	ExhibitionID string `json:"exhibition_id" bson:"exhibition_id"`
	Year         int    `json:"year" bson:"year"`
	Sequence     int64  `json:"sequence" bson:"sequence"`
}
