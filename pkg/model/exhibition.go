package model

import "time"

const (
	ExhibitionDraft     = "draft"
	ExhibitionPublished = "published"
	ExhibitionCompleted = "completed"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// StallRate is an exhibition-level rate override for one stall type,
// expressed per square meter.
type StallRate struct {
	StallTypeID string  `json:"stall_type_id" bson:"stall_type_id" validate:"required,mongodb"`
	Rate        float64 `json:"rate" bson:"rate" validate:"required,gt=0"`
}

type TaxConfig struct {
	Name    string  `json:"name" bson:"name" validate:"required,min=1,max=50"`
	Rate    float64 `json:"rate" bson:"rate" validate:"required,gte=0,lte=100"`
	Enabled bool    `json:"enabled" bson:"enabled"`
}

type DiscountOption struct {
	Name     string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type     string  `json:"type" bson:"type" validate:"required,oneof=percentage fixed"`
	Value    float64 `json:"value" bson:"value" validate:"required,gt=0"`
	IsActive bool    `json:"is_active" bson:"is_active"`
}

// AmenityConfig describes a basic amenity whose quantity scales with the
// total booked area: quantity units per per_sqm square meters.
type AmenityConfig struct {
	Name     string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	PerSqm   float64 `json:"per_sqm" bson:"per_sqm" validate:"gte=0"`
	Quantity float64 `json:"quantity" bson:"quantity" validate:"gte=0"`
}

type ExtraAmenityOption struct {
	Name string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Rate float64 `json:"rate" bson:"rate" validate:"gte=0"`
}

type Exhibition struct {
	ID                   string               `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                 string               `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Slug                 string               `json:"slug" bson:"slug" validate:"required,min=2,max=200"`
	Description          string               `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=5000"`
	Venue                string               `json:"venue,omitempty" bson:"venue,omitempty" validate:"omitempty,max=300"`
	Status               string               `json:"status" bson:"status" validate:"required,oneof=draft published completed"`
	IsActive             bool                 `json:"is_active" bson:"is_active"`
	StartDate            time.Time            `json:"start_date" bson:"start_date" validate:"required"`
	EndDate              time.Time            `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	StallRates           []StallRate          `json:"stall_rates,omitempty" bson:"stall_rates,omitempty" validate:"omitempty,dive"`
	TaxConfig            []TaxConfig          `json:"tax_config,omitempty" bson:"tax_config,omitempty" validate:"omitempty,dive"`
	DiscountConfig       []DiscountOption     `json:"discount_config,omitempty" bson:"discount_config,omitempty" validate:"omitempty,dive"`
	PublicDiscountConfig []DiscountOption     `json:"public_discount_config,omitempty" bson:"public_discount_config,omitempty" validate:"omitempty,dive"`
	BasicAmenities       []AmenityConfig      `json:"basic_amenities,omitempty" bson:"basic_amenities,omitempty" validate:"omitempty,dive"`
	ExtraAmenities       []ExtraAmenityOption `json:"extra_amenities,omitempty" bson:"extra_amenities,omitempty" validate:"omitempty,dive"`
	InvoicePrefix        string               `json:"invoice_prefix,omitempty" bson:"invoice_prefix,omitempty" validate:"omitempty,min=1,max=20"`
	CreatedAt            time.Time            `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt            time.Time            `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ExhibitionUpdate struct {
	Name                 *string               `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description          *string               `json:"description,omitempty" validate:"omitempty,max=5000"`
	Venue                *string               `json:"venue,omitempty" validate:"omitempty,max=300"`
	Status               string                `json:"status,omitempty" validate:"omitempty,oneof=draft published completed"`
	IsActive             *bool                 `json:"is_active,omitempty"`
	StartDate            *time.Time            `json:"start_date,omitempty"`
	EndDate              *time.Time            `json:"end_date,omitempty"`
	StallRates           *[]StallRate          `json:"stall_rates,omitempty" validate:"omitempty,dive"`
	TaxConfig            *[]TaxConfig          `json:"tax_config,omitempty" validate:"omitempty,dive"`
	DiscountConfig       *[]DiscountOption     `json:"discount_config,omitempty" validate:"omitempty,dive"`
	PublicDiscountConfig *[]DiscountOption     `json:"public_discount_config,omitempty" validate:"omitempty,dive"`
	BasicAmenities       *[]AmenityConfig      `json:"basic_amenities,omitempty" validate:"omitempty,dive"`
	ExtraAmenities       *[]ExtraAmenityOption `json:"extra_amenities,omitempty" validate:"omitempty,dive"`
	InvoicePrefix        *string               `json:"invoice_prefix,omitempty" validate:"omitempty,min=1,max=20"`
}

// OverrideRateFor returns the exhibition-level rate override for the given
// stall type, if one is configured.
func (e *Exhibition) OverrideRateFor(stallTypeID string) (float64, bool) {
	for _, sr := range e.StallRates {
		if sr.StallTypeID == stallTypeID {
			return sr.Rate, true
		}
	}
	return 0, false
}

// IsBookable reports whether bookings may be created against this
// exhibition.
func (e *Exhibition) IsBookable() bool {
	return e.Status == ExhibitionPublished && e.IsActive
}
