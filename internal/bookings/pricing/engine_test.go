package pricing

import (
	"testing"

	apperrors "expostall/pkg/errors"
	"expostall/pkg/model"
)

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

// Two stalls: 5m x 4m at 100/sqm (2000.00) and 3m x 3m at 120/sqm
// (1080.00), total base 3080.00.
func twoStalls() []*model.Stall {
	return []*model.Stall{
		{
			ID:         "stall-1",
			Number:     "A-01",
			Shape:      model.ShapeRectangle,
			Size:       model.PixelSize{Width: 250, Height: 200},
			RatePerSqm: 100,
			Status:     model.StallAvailable,
		},
		{
			ID:         "stall-2",
			Number:     "A-02",
			Shape:      model.ShapeRectangle,
			Size:       model.PixelSize{Width: 150, Height: 150},
			RatePerSqm: 120,
			Status:     model.StallAvailable,
		},
	}
}

// ────────────────────────────────────────────────
// Base amount and tamper check
// ────────────────────────────────────────────────

func TestPrice_BaseAmounts(t *testing.T) {
	result, err := Price(Input{
		Exhibition:            &model.Exhibition{},
		Stalls:                twoStalls(),
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc := result.Calculations
	if calc.TotalBaseAmount != 3080.00 {
		t.Errorf("TotalBaseAmount = %v, want 3080.00", calc.TotalBaseAmount)
	}
	if calc.TotalStallArea != 29.00 {
		t.Errorf("TotalStallArea = %v, want 29.00", calc.TotalStallArea)
	}
	if len(calc.Stalls) != 2 {
		t.Fatalf("expected 2 stall calculations, got %d", len(calc.Stalls))
	}
	if calc.Stalls[0].BaseAmount != 2000.00 {
		t.Errorf("stall 1 BaseAmount = %v, want 2000.00", calc.Stalls[0].BaseAmount)
	}
	if calc.Stalls[1].BaseAmount != 1080.00 {
		t.Errorf("stall 2 BaseAmount = %v, want 1080.00", calc.Stalls[1].BaseAmount)
	}
	// No discount: totals carry through unchanged.
	if calc.TotalAmountAfterDiscount != 3080.00 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 3080.00", calc.TotalAmountAfterDiscount)
	}
	if result.TotalAmount != 3080.00 {
		t.Errorf("TotalAmount = %v, want 3080.00", result.TotalAmount)
	}
}

func TestPrice_TamperCheck(t *testing.T) {
	tests := []struct {
		name       string
		clientBase float64
		wantErr    bool
	}{
		{"exact match", 3080.00, false},
		{"within tolerance", 3080.005, false},
		{"beyond tolerance high", 3080.02, true},
		{"beyond tolerance low", 3079.98, true},
		{"grossly understated", 100.00, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price(Input{
				Exhibition:            &model.Exhibition{},
				Stalls:                twoStalls(),
				ClientTotalBaseAmount: tt.clientBase,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected mismatch error, got nil")
				}
				appErr := apperrors.AsAppError(err)
				if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
					t.Errorf("expected invalid input error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPrice_InvalidStoredRateReresolved(t *testing.T) {
	stalls := twoStalls()
	stalls[0].RatePerSqm = 0 // ratePerSqm was never written for this stall
	stalls[0].StallTypeID = "507f1f77bcf86cd799439011"

	result, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     stalls,
		StallTypes: map[string]*model.StallType{
			"507f1f77bcf86cd799439011": {
				ID:          "507f1f77bcf86cd799439011",
				DefaultRate: 100,
				RateType:    model.RatePerSqm,
			},
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Calculations.Stalls[0].RatePerSqm != 100 {
		t.Errorf("resolved rate = %v, want 100", result.Calculations.Stalls[0].RatePerSqm)
	}
}

// ────────────────────────────────────────────────
// Discounts
// ────────────────────────────────────────────────

func TestPrice_PercentageDiscount(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     twoStalls(),
		Discount: &model.DiscountOption{
			Name:     "early-bird",
			Type:     model.DiscountPercentage,
			Value:    10,
			IsActive: true,
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc := result.Calculations
	if calc.Stalls[0].DiscountAmount != 200.00 {
		t.Errorf("stall 1 DiscountAmount = %v, want 200.00", calc.Stalls[0].DiscountAmount)
	}
	if calc.Stalls[1].DiscountAmount != 108.00 {
		t.Errorf("stall 2 DiscountAmount = %v, want 108.00", calc.Stalls[1].DiscountAmount)
	}
	if calc.TotalDiscountAmount != 308.00 {
		t.Errorf("TotalDiscountAmount = %v, want 308.00", calc.TotalDiscountAmount)
	}
	if calc.TotalAmountAfterDiscount != 2772.00 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 2772.00", calc.TotalAmountAfterDiscount)
	}
	if calc.AppliedDiscount == nil || calc.AppliedDiscount.Name != "early-bird" {
		t.Errorf("AppliedDiscount = %+v, want early-bird snapshot", calc.AppliedDiscount)
	}
}

func TestPrice_FixedDiscountProportionalSplit(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     twoStalls(),
		Discount: &model.DiscountOption{
			Name:     "flat-500",
			Type:     model.DiscountFixed,
			Value:    500,
			IsActive: true,
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc := result.Calculations
	// 2000/3080 * 500 = 324.675..., rounded 324.68; the last stall absorbs
	// the remainder so the parts sum to exactly 500.
	if calc.Stalls[0].DiscountAmount != 324.68 {
		t.Errorf("stall 1 DiscountAmount = %v, want 324.68", calc.Stalls[0].DiscountAmount)
	}
	if calc.Stalls[1].DiscountAmount != 175.32 {
		t.Errorf("stall 2 DiscountAmount = %v, want 175.32", calc.Stalls[1].DiscountAmount)
	}
	if calc.TotalDiscountAmount != 500.00 {
		t.Errorf("TotalDiscountAmount = %v, want 500.00", calc.TotalDiscountAmount)
	}
	if calc.TotalAmountAfterDiscount != 2580.00 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 2580.00", calc.TotalAmountAfterDiscount)
	}
}

func TestPrice_FixedDiscountCappedAtTotal(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     twoStalls(),
		Discount: &model.DiscountOption{
			Name:     "huge",
			Type:     model.DiscountFixed,
			Value:    10000,
			IsActive: true,
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc := result.Calculations
	if calc.TotalDiscountAmount != 3080.00 {
		t.Errorf("TotalDiscountAmount = %v, want 3080.00", calc.TotalDiscountAmount)
	}
	if calc.TotalAmountAfterDiscount != 0 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 0", calc.TotalAmountAfterDiscount)
	}
	for i, st := range calc.Stalls {
		if st.DiscountAmount > st.BaseAmount {
			t.Errorf("stall %d discount %v exceeds its base %v", i, st.DiscountAmount, st.BaseAmount)
		}
	}
}

func TestPrice_PercentageDiscountClamped(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     twoStalls(),
		Discount: &model.DiscountOption{
			Name:     "broken",
			Type:     model.DiscountPercentage,
			Value:    150,
			IsActive: true,
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Calculations.TotalAmountAfterDiscount != 0 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 0 (clamped at 100%%)",
			result.Calculations.TotalAmountAfterDiscount)
	}
}

// ────────────────────────────────────────────────
// Amenities and taxes
// ────────────────────────────────────────────────

func TestPrice_BasicAmenityQuantities(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{
			BasicAmenities: []model.AmenityConfig{
				{Name: "chairs", PerSqm: 0.5, Quantity: 1},
				{Name: "power outlets", PerSqm: 0.1},
			},
		},
		Stalls:                twoStalls(),
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.BasicAmenities) != 2 {
		t.Fatalf("expected 2 basic amenities, got %d", len(result.BasicAmenities))
	}
	// 29 sqm total; quantities are not floored.
	if result.BasicAmenities[0].CalculatedQuantity != 14.50 {
		t.Errorf("chairs CalculatedQuantity = %v, want 14.50", result.BasicAmenities[0].CalculatedQuantity)
	}
	if result.BasicAmenities[1].CalculatedQuantity != 2.90 {
		t.Errorf("power outlets CalculatedQuantity = %v, want 2.90", result.BasicAmenities[1].CalculatedQuantity)
	}
}

func TestPrice_ExtraAmenities(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{
			ExtraAmenities: []model.ExtraAmenityOption{
				{Name: "spotlight", Rate: 250},
			},
		},
		Stalls: twoStalls(),
		ExtraAmenities: []model.BookingExtraAmenity{
			{Name: "spotlight", Rate: 1, Quantity: 2}, // client rate ignored
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.ExtraAmenities) != 1 {
		t.Fatalf("expected 1 extra amenity, got %d", len(result.ExtraAmenities))
	}
	if result.ExtraAmenities[0].Rate != 250 {
		t.Errorf("Rate = %v, want server rate 250", result.ExtraAmenities[0].Rate)
	}
	if result.ExtraAmenities[0].Total != 500.00 {
		t.Errorf("Total = %v, want 500.00", result.ExtraAmenities[0].Total)
	}
	if result.Calculations.ExtraAmenitiesTotal != 500.00 {
		t.Errorf("ExtraAmenitiesTotal = %v, want 500.00", result.Calculations.ExtraAmenitiesTotal)
	}
	if result.TotalAmount != 3580.00 {
		t.Errorf("TotalAmount = %v, want 3580.00", result.TotalAmount)
	}
}

func TestPrice_UnknownExtraAmenityRejected(t *testing.T) {
	_, err := Price(Input{
		Exhibition: &model.Exhibition{},
		Stalls:     twoStalls(),
		ExtraAmenities: []model.BookingExtraAmenity{
			{Name: "fog machine", Quantity: 1},
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err == nil {
		t.Fatal("expected error for unknown extra amenity, got nil")
	}
}

func TestPrice_Taxes(t *testing.T) {
	result, err := Price(Input{
		Exhibition: &model.Exhibition{
			TaxConfig: []model.TaxConfig{
				{Name: "GST", Rate: 18, Enabled: true},
				{Name: "cess", Rate: 1, Enabled: false},
			},
			ExtraAmenities: []model.ExtraAmenityOption{
				{Name: "spotlight", Rate: 250},
			},
		},
		Stalls: twoStalls(),
		Discount: &model.DiscountOption{
			Name:     "flat-500",
			Type:     model.DiscountFixed,
			Value:    500,
			IsActive: true,
		},
		ExtraAmenities: []model.BookingExtraAmenity{
			{Name: "spotlight", Quantity: 2},
		},
		ClientTotalBaseAmount: 3080.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calc := result.Calculations
	// Taxable = 2580.00 after discount + 500.00 extras = 3080.00.
	// GST 18% = 554.40; the disabled cess is skipped.
	if len(calc.Taxes) != 1 {
		t.Fatalf("expected 1 tax line, got %d", len(calc.Taxes))
	}
	if calc.Taxes[0].Amount != 554.40 {
		t.Errorf("GST amount = %v, want 554.40", calc.Taxes[0].Amount)
	}
	if calc.TotalTaxAmount != 554.40 {
		t.Errorf("TotalTaxAmount = %v, want 554.40", calc.TotalTaxAmount)
	}
	if result.TotalAmount != 3634.40 {
		t.Errorf("TotalAmount = %v, want 3634.40", result.TotalAmount)
	}
}

// ────────────────────────────────────────────────
// Input validation
// ────────────────────────────────────────────────

func TestPrice_RequiresExhibitionAndStalls(t *testing.T) {
	if _, err := Price(Input{Stalls: twoStalls()}); err == nil {
		t.Error("expected error for nil exhibition")
	}
	if _, err := Price(Input{Exhibition: &model.Exhibition{}}); err == nil {
		t.Error("expected error for empty stall list")
	}
}
