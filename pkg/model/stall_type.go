package model

import "time"

const (
	RatePerSqm   = "per_sqm"
	RatePerStall = "per_stall"
	RatePerDay   = "per_day"
)

type StallType struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	DefaultSize Dimensions `json:"default_size" bson:"default_size"`
	DefaultRate float64    `json:"default_rate" bson:"default_rate" validate:"required,gt=0"`
	RateType    string     `json:"rate_type" bson:"rate_type" validate:"required,oneof=per_sqm per_stall per_day"`
	Color       string     `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,max=20"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type StallTypeUpdate struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	DefaultSize *Dimensions `json:"default_size,omitempty"`
	DefaultRate *float64    `json:"default_rate,omitempty" validate:"omitempty,gt=0"`
	RateType    string      `json:"rate_type,omitempty" validate:"omitempty,oneof=per_sqm per_stall per_day"`
	Color       *string     `json:"color,omitempty" validate:"omitempty,max=20"`
}
