package pricing

import (
	"math"
	"testing"

	"expostall/pkg/model"
)

func TestResolveRate_OverrideWins(t *testing.T) {
	exhibition := &model.Exhibition{
		StallRates: []model.StallRate{
			{StallTypeID: "507f1f77bcf86cd799439011", Rate: 150},
		},
	}
	stallType := &model.StallType{
		ID:          "507f1f77bcf86cd799439011",
		DefaultRate: 100,
		RateType:    model.RatePerSqm,
	}

	if got := ResolveRate(exhibition, stallType); got != 150 {
		t.Errorf("ResolveRate() = %v, want 150", got)
	}
}

func TestResolveRate_PerSqmDefault(t *testing.T) {
	stallType := &model.StallType{
		ID:          "507f1f77bcf86cd799439011",
		DefaultRate: 100,
		RateType:    model.RatePerSqm,
	}

	if got := ResolveRate(&model.Exhibition{}, stallType); got != 100 {
		t.Errorf("ResolveRate() = %v, want 100", got)
	}
}

func TestResolveRate_PerStallDividedByDefaultArea(t *testing.T) {
	stallType := &model.StallType{
		ID:          "507f1f77bcf86cd799439011",
		DefaultSize: model.Dimensions{Width: 4, Height: 5},
		DefaultRate: 3000,
		RateType:    model.RatePerStall,
	}

	// 3000 per stall over 20 sqm = 150 per sqm.
	if got := ResolveRate(nil, stallType); got != 150 {
		t.Errorf("ResolveRate() = %v, want 150", got)
	}
}

func TestResolveRate_PerStallZeroAreaFallsBack(t *testing.T) {
	stallType := &model.StallType{
		ID:          "507f1f77bcf86cd799439011",
		DefaultRate: 3000,
		RateType:    model.RatePerStall,
	}

	if got := ResolveRate(nil, stallType); got != 3000 {
		t.Errorf("ResolveRate() = %v, want 3000", got)
	}
}

func TestResolveRate_PerDayPassthrough(t *testing.T) {
	stallType := &model.StallType{
		ID:          "507f1f77bcf86cd799439011",
		DefaultSize: model.Dimensions{Width: 4, Height: 5},
		DefaultRate: 500,
		RateType:    model.RatePerDay,
	}

	if got := ResolveRate(nil, stallType); got != 500 {
		t.Errorf("ResolveRate() = %v, want 500", got)
	}
}

func TestResolveRate_PerStallLShapeDefaultSize(t *testing.T) {
	stallType := &model.StallType{
		ID: "507f1f77bcf86cd799439011",
		DefaultSize: model.Dimensions{
			Rect1Width:  4,
			Rect1Height: 2,
			Rect2Width:  2,
			Rect2Height: 1,
		},
		DefaultRate: 1000,
		RateType:    model.RatePerStall,
	}

	// 1000 over 10 sqm.
	if got := ResolveRate(nil, stallType); got != 100 {
		t.Errorf("ResolveRate() = %v, want 100", got)
	}
}

func TestResolveRate_NilStallType(t *testing.T) {
	if got := ResolveRate(&model.Exhibition{}, nil); got != 0 {
		t.Errorf("ResolveRate() = %v, want 0", got)
	}
}

func TestRateValid(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want bool
	}{
		{"positive", 100, true},
		{"small positive", 0.01, true},
		{"zero", 0, false},
		{"negative", -5, false},
		{"NaN", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RateValid(tt.rate); got != tt.want {
				t.Errorf("RateValid(%v) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}
