package model

import "time"

const (
	ShapeRectangle = "rectangle"
	ShapeLShape    = "l-shape"
)

const (
	StallAvailable   = "available"
	StallReserved    = "reserved"
	StallBooked      = "booked"
	StallBlocked     = "blocked"
	StallMaintenance = "maintenance"
)

// Point is a position on the layout canvas, in pixels.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PixelSize is a stall footprint on the layout canvas, in pixels. For
// l-shape stalls the two rectangles are stored separately.
type PixelSize struct {
	Width       float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height      float64 `json:"height,omitempty" bson:"height,omitempty"`
	Rect1Width  float64 `json:"rect1_width,omitempty" bson:"rect1_width,omitempty"`
	Rect1Height float64 `json:"rect1_height,omitempty" bson:"rect1_height,omitempty"`
	Rect2Width  float64 `json:"rect2_width,omitempty" bson:"rect2_width,omitempty"`
	Rect2Height float64 `json:"rect2_height,omitempty" bson:"rect2_height,omitempty"`
}

// Dimensions is a real-world stall footprint in meters. When present it
// overrides the pixel-derived size for all area calculations.
type Dimensions struct {
	Width       float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height      float64 `json:"height,omitempty" bson:"height,omitempty"`
	Rect1Width  float64 `json:"rect1_width,omitempty" bson:"rect1_width,omitempty"`
	Rect1Height float64 `json:"rect1_height,omitempty" bson:"rect1_height,omitempty"`
	Rect2Width  float64 `json:"rect2_width,omitempty" bson:"rect2_width,omitempty"`
	Rect2Height float64 `json:"rect2_height,omitempty" bson:"rect2_height,omitempty"`
}

// Stall ids are opaque strings assigned by the layout editor, not database
// keys. They only resolve inside the owning exhibition's layout.
type Stall struct {
	ID          string      `json:"id" bson:"id" validate:"required,min=1,max=64"`
	Number      string      `json:"number" bson:"number" validate:"required,min=1,max=32"`
	Shape       string      `json:"shape" bson:"shape" validate:"required,oneof=rectangle l-shape"`
	Position    Point       `json:"position" bson:"position"`
	Size        PixelSize   `json:"size" bson:"size"`
	Dimensions  *Dimensions `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	StallTypeID string      `json:"stall_type_id" bson:"stall_type_id" validate:"required,mongodb"`
	RatePerSqm  float64     `json:"rate_per_sqm" bson:"rate_per_sqm"`
	Status      string      `json:"status" bson:"status" validate:"required,oneof=available reserved booked blocked maintenance"`
}

// Fixture is a non-bookable layout element (pillar, entrance, aisle marker).
type Fixture struct {
	ID       string    `json:"id" bson:"id" validate:"required,min=1,max=64"`
	Kind     string    `json:"kind" bson:"kind" validate:"required,min=1,max=50"`
	Label    string    `json:"label,omitempty" bson:"label,omitempty" validate:"omitempty,max=100"`
	Position Point     `json:"position" bson:"position"`
	Size     PixelSize `json:"size" bson:"size"`
}

type Hall struct {
	ID       string    `json:"id" bson:"id" validate:"required,min=1,max=64"`
	Name     string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Stalls   []Stall   `json:"stalls" bson:"stalls" validate:"omitempty,dive"`
	Fixtures []Fixture `json:"fixtures,omitempty" bson:"fixtures,omitempty" validate:"omitempty,dive"`
}

type Space struct {
	ID    string `json:"id" bson:"id" validate:"required,min=1,max=64"`
	Name  string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Halls []Hall `json:"halls" bson:"halls" validate:"omitempty,dive"`
}

type CanvasSettings struct {
	Width           float64 `json:"width" bson:"width"`
	Height          float64 `json:"height" bson:"height"`
	BackgroundColor string  `json:"background_color,omitempty" bson:"background_color,omitempty"`
	GridSize        float64 `json:"grid_size,omitempty" bson:"grid_size,omitempty"`
}

// Layout is the single per-exhibition document holding the full
// space/hall/stall tree plus canvas settings.
type Layout struct {
	ID           string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ExhibitionID string         `json:"exhibition_id" bson:"exhibition_id" validate:"required,mongodb"`
	Canvas       CanvasSettings `json:"canvas" bson:"canvas"`
	Spaces       []Space        `json:"spaces" bson:"spaces" validate:"omitempty,dive"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// FindStall walks the space/hall/stall tree depth-first and returns the
// stall with the given id, or nil if the layout does not contain it.
func (l *Layout) FindStall(id string) *Stall {
	for si := range l.Spaces {
		for hi := range l.Spaces[si].Halls {
			stalls := l.Spaces[si].Halls[hi].Stalls
			for sti := range stalls {
				if stalls[sti].ID == id {
					return &stalls[sti]
				}
			}
		}
	}
	return nil
}

// Walk visits every stall in the tree in depth-first order. The visitor
// receives a pointer into the tree, so mutations are visible to the caller.
func (l *Layout) Walk(visit func(st *Stall)) {
	for si := range l.Spaces {
		for hi := range l.Spaces[si].Halls {
			stalls := l.Spaces[si].Halls[hi].Stalls
			for sti := range stalls {
				visit(&stalls[sti])
			}
		}
	}
}
