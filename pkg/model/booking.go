package model

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentPartial  = "partial"
)

const (
	SourceAdmin     = "admin"
	SourceExhibitor = "exhibitor"
	SourcePublic    = "public"
)

// AppliedDiscount is the discount selected for a booking, snapshotted from
// the exhibition's discount configuration at pricing time.
type AppliedDiscount struct {
	Name  string  `json:"name" bson:"name"`
	Type  string  `json:"type" bson:"type"`
	Value float64 `json:"value" bson:"value"`
}

// StallCalculation is the per-stall pricing breakdown stored on a booking.
type StallCalculation struct {
	StallID             string  `json:"stall_id" bson:"stall_id"`
	Number              string  `json:"number" bson:"number"`
	Area                float64 `json:"area" bson:"area"`
	RatePerSqm          float64 `json:"rate_per_sqm" bson:"rate_per_sqm"`
	BaseAmount          float64 `json:"base_amount" bson:"base_amount"`
	DiscountAmount      float64 `json:"discount_amount" bson:"discount_amount"`
	AmountAfterDiscount float64 `json:"amount_after_discount" bson:"amount_after_discount"`
}

type TaxLine struct {
	Name   string  `json:"name" bson:"name"`
	Rate   float64 `json:"rate" bson:"rate"`
	Amount float64 `json:"amount" bson:"amount"`
}

// BookingAmenity is a basic amenity included with the booking; its
// calculated quantity derives from the total booked stall area.
type BookingAmenity struct {
	Name               string  `json:"name" bson:"name"`
	PerSqm             float64 `json:"per_sqm" bson:"per_sqm"`
	Quantity           float64 `json:"quantity" bson:"quantity"`
	CalculatedQuantity float64 `json:"calculated_quantity" bson:"calculated_quantity"`
}

// BookingExtraAmenity is an optionally selected, separately priced amenity.
type BookingExtraAmenity struct {
	Name     string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Rate     float64 `json:"rate" bson:"rate" validate:"gte=0"`
	Quantity float64 `json:"quantity" bson:"quantity" validate:"gt=0"`
	Total    float64 `json:"total" bson:"total"`
}

// BookingCalculations is the server-computed pricing snapshot persisted on
// every booking. TotalBaseAmount is the anti-tamper anchor: the stored
// value must match a server recomputation within 0.01.
type BookingCalculations struct {
	Stalls                   []StallCalculation `json:"stalls" bson:"stalls"`
	TotalStallArea           float64            `json:"total_stall_area" bson:"total_stall_area"`
	TotalBaseAmount          float64            `json:"total_base_amount" bson:"total_base_amount"`
	AppliedDiscount          *AppliedDiscount   `json:"applied_discount,omitempty" bson:"applied_discount,omitempty"`
	TotalDiscountAmount      float64            `json:"total_discount_amount" bson:"total_discount_amount"`
	TotalAmountAfterDiscount float64            `json:"total_amount_after_discount" bson:"total_amount_after_discount"`
	ExtraAmenitiesTotal      float64            `json:"extra_amenities_total" bson:"extra_amenities_total"`
	Taxes                    []TaxLine          `json:"taxes,omitempty" bson:"taxes,omitempty"`
	TotalTaxAmount           float64            `json:"total_tax_amount" bson:"total_tax_amount"`
	TotalAmount              float64            `json:"total_amount" bson:"total_amount"`
}

type Booking struct {
	ID              string                `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ExhibitionID    string                `json:"exhibition_id" bson:"exhibition_id" validate:"required,mongodb"`
	StallIDs        []string              `json:"stall_ids" bson:"stall_ids" validate:"required,min=1,max=50,unique,dive,min=1"`
	CustomerName    string                `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=200"`
	CustomerPhone   string                `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	CustomerEmail   string                `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	CompanyName     string                `json:"company_name,omitempty" bson:"company_name,omitempty" validate:"omitempty,max=200"`
	CustomerTaxID   string                `json:"customer_tax_id,omitempty" bson:"customer_tax_id,omitempty" validate:"omitempty,max=30"`
	CustomerAddress string                `json:"customer_address,omitempty" bson:"customer_address,omitempty" validate:"omitempty,max=500"`
	Amount          float64               `json:"amount" bson:"amount" validate:"gte=0"`
	BasicAmenities  []BookingAmenity      `json:"basic_amenities,omitempty" bson:"basic_amenities,omitempty"`
	ExtraAmenities  []BookingExtraAmenity `json:"extra_amenities,omitempty" bson:"extra_amenities,omitempty" validate:"omitempty,dive"`
	Calculations    BookingCalculations   `json:"calculations" bson:"calculations"`
	Status          string                `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled approved rejected"`
	PaymentStatus   string                `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded partial"`
	BookingSource   string                `json:"booking_source" bson:"booking_source" validate:"required,oneof=admin exhibitor public"`
	InvoiceNumber   string                `json:"invoice_number,omitempty" bson:"invoice_number,omitempty"`

	ApprovedBy         string     `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	RejectionReason    string     `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// CreateBookingRequest is the creation payload. The client submits its own
// calculation snapshot for display; the server recomputes and refuses
// divergent totals.
type CreateBookingRequest struct {
	ExhibitionID    string                `json:"exhibition_id" validate:"required,mongodb"`
	StallIDs        []string              `json:"stall_ids" validate:"required,min=1,max=50,unique,dive,min=1"`
	CustomerName    string                `json:"customer_name" validate:"required,min=2,max=200"`
	CustomerPhone   string                `json:"customer_phone" validate:"required"`
	CustomerEmail   string                `json:"customer_email,omitempty" validate:"omitempty,email"`
	CompanyName     string                `json:"company_name,omitempty" validate:"omitempty,max=200"`
	CustomerTaxID   string                `json:"customer_tax_id,omitempty" validate:"omitempty,max=30"`
	CustomerAddress string                `json:"customer_address,omitempty" validate:"omitempty,max=500"`
	DiscountName    string                `json:"discount_name,omitempty" validate:"omitempty,max=100"`
	ExtraAmenities  []BookingExtraAmenity `json:"extra_amenities,omitempty" validate:"omitempty,dive"`
	BookingSource   string                `json:"booking_source" validate:"required,oneof=admin exhibitor public"`
	Calculations    ClientCalculations    `json:"calculations" validate:"required"`
}

// ClientCalculations is the caller-computed snapshot used for the
// anti-tamper cross-check.
type ClientCalculations struct {
	TotalBaseAmount float64 `json:"total_base_amount" validate:"gte=0"`
}

// BookingStatusUpdate is the payload for a lifecycle transition.
type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled approved rejected"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Actor  string `json:"actor,omitempty" validate:"omitempty,max=100"`
}

type PaymentStatusUpdate struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded partial"`
}
