package pricing

import (
	"fmt"
	"math"

	apperrors "expostall/pkg/errors"
	"expostall/pkg/model"
)

// MismatchTolerance is the maximum allowed divergence between the caller's
// total and the server recomputation, in currency units. Anything beyond it
// is treated as tampering and rejected outright.
const MismatchTolerance = 0.01

type Input struct {
	Exhibition *model.Exhibition
	Stalls     []*model.Stall

	// StallTypes indexes the involved stall types by id, for defensive
	// re-resolution of stalls persisted with an invalid rate.
	StallTypes map[string]*model.StallType

	// Discount is the selected discount option, already resolved against
	// the exhibition's configuration. Nil when none was selected.
	Discount *model.DiscountOption

	// ExtraAmenities carries the requested quantities; rates are resolved
	// server-side from the exhibition configuration.
	ExtraAmenities []model.BookingExtraAmenity

	// ClientTotalBaseAmount is the caller-computed total used for the
	// anti-tamper cross-check.
	ClientTotalBaseAmount float64
}

type Result struct {
	Calculations   model.BookingCalculations
	BasicAmenities []model.BookingAmenity
	ExtraAmenities []model.BookingExtraAmenity
	TotalAmount    float64
}

// Price computes the authoritative charge breakdown for a stall selection.
// The caller-supplied total is cross-checked against the server total
// before any discount is applied; a divergent submission fails and the
// booking must not be created.
func Price(in Input) (*Result, error) {
	if in.Exhibition == nil {
		return nil, apperrors.InvalidInput("Exhibition is required for pricing")
	}
	if len(in.Stalls) == 0 {
		return nil, apperrors.InvalidInput("At least one stall is required for pricing")
	}

	stalls := make([]model.StallCalculation, 0, len(in.Stalls))
	var totalArea, totalBase float64

	for _, st := range in.Stalls {
		area := StallArea(st)
		rate := st.RatePerSqm
		if !RateValid(rate) {
			rate = ResolveRate(in.Exhibition, in.StallTypes[st.StallTypeID])
		}

		base := Round2(area * rate)
		stalls = append(stalls, model.StallCalculation{
			StallID:    st.ID,
			Number:     st.Number,
			Area:       area,
			RatePerSqm: rate,
			BaseAmount: base,
		})
		totalArea += area
		totalBase = Round2(totalBase + base)
	}

	if diff := math.Abs(totalBase - in.ClientTotalBaseAmount); diff > MismatchTolerance {
		return nil, apperrors.InvalidInput("Price calculation mismatch, booking rejected").WithDetails(map[string]any{
			"server_total_base_amount": totalBase,
			"client_total_base_amount": in.ClientTotalBaseAmount,
			"difference":               Round2(diff),
		})
	}

	calc := model.BookingCalculations{
		Stalls:          stalls,
		TotalStallArea:  totalArea,
		TotalBaseAmount: totalBase,
	}

	applyDiscount(&calc, in.Discount)

	extras, extrasTotal, err := priceExtraAmenities(in.Exhibition, in.ExtraAmenities)
	if err != nil {
		return nil, err
	}
	calc.ExtraAmenitiesTotal = extrasTotal

	taxable := Round2(calc.TotalAmountAfterDiscount + extrasTotal)
	for _, tc := range in.Exhibition.TaxConfig {
		if !tc.Enabled {
			continue
		}
		amount := Round2(taxable * tc.Rate / 100)
		calc.Taxes = append(calc.Taxes, model.TaxLine{
			Name:   tc.Name,
			Rate:   tc.Rate,
			Amount: amount,
		})
		calc.TotalTaxAmount = Round2(calc.TotalTaxAmount + amount)
	}

	calc.TotalAmount = Round2(taxable + calc.TotalTaxAmount)

	return &Result{
		Calculations:   calc,
		BasicAmenities: basicAmenityQuantities(in.Exhibition.BasicAmenities, totalArea),
		ExtraAmenities: extras,
		TotalAmount:    calc.TotalAmount,
	}, nil
}

// applyDiscount computes the discount over the total and distributes it to
// the stalls. Percentage discounts apply per stall on its own base amount;
// fixed discounts distribute proportionally to each stall's share of the
// total, each stall capped at its own base amount.
func applyDiscount(calc *model.BookingCalculations, d *model.DiscountOption) {
	if d == nil || calc.TotalBaseAmount <= 0 {
		for i := range calc.Stalls {
			calc.Stalls[i].AmountAfterDiscount = calc.Stalls[i].BaseAmount
		}
		calc.TotalAmountAfterDiscount = calc.TotalBaseAmount
		return
	}

	calc.AppliedDiscount = &model.AppliedDiscount{
		Name:  d.Name,
		Type:  d.Type,
		Value: d.Value,
	}

	switch d.Type {
	case model.DiscountPercentage:
		pct := clamp(d.Value, 0, 100)
		for i := range calc.Stalls {
			st := &calc.Stalls[i]
			st.DiscountAmount = Round2(st.BaseAmount * pct / 100)
			st.AmountAfterDiscount = Round2(st.BaseAmount - st.DiscountAmount)
			calc.TotalDiscountAmount = Round2(calc.TotalDiscountAmount + st.DiscountAmount)
		}

	case model.DiscountFixed:
		remaining := math.Min(d.Value, calc.TotalBaseAmount)
		allocated := 0.0
		for i := range calc.Stalls {
			st := &calc.Stalls[i]
			var share float64
			if i == len(calc.Stalls)-1 {
				// Last stall absorbs the rounding remainder so the
				// distributed discount sums exactly.
				share = remaining - allocated
			} else {
				share = st.BaseAmount / calc.TotalBaseAmount * math.Min(d.Value, calc.TotalBaseAmount)
			}
			st.DiscountAmount = Round2(math.Min(share, st.BaseAmount))
			st.AmountAfterDiscount = Round2(st.BaseAmount - st.DiscountAmount)
			allocated = Round2(allocated + st.DiscountAmount)
		}
		calc.TotalDiscountAmount = allocated
	}

	calc.TotalAmountAfterDiscount = Round2(calc.TotalBaseAmount - calc.TotalDiscountAmount)
}

// basicAmenityQuantities derives included amenity quantities from the total
// booked area. The multiplication is direct, not floored to whole units;
// any UI preview that floors is presentation-only.
func basicAmenityQuantities(configs []model.AmenityConfig, totalArea float64) []model.BookingAmenity {
	if len(configs) == 0 {
		return nil
	}

	out := make([]model.BookingAmenity, 0, len(configs))
	for _, ac := range configs {
		out = append(out, model.BookingAmenity{
			Name:               ac.Name,
			PerSqm:             ac.PerSqm,
			Quantity:           ac.Quantity,
			CalculatedQuantity: Round2(totalArea * ac.PerSqm),
		})
	}
	return out
}

// priceExtraAmenities prices requested extras against the exhibition's
// configured rates; client-submitted rates are ignored.
func priceExtraAmenities(exhibition *model.Exhibition, requested []model.BookingExtraAmenity) ([]model.BookingExtraAmenity, float64, error) {
	if len(requested) == 0 {
		return nil, 0, nil
	}

	rates := make(map[string]float64, len(exhibition.ExtraAmenities))
	for _, opt := range exhibition.ExtraAmenities {
		rates[opt.Name] = opt.Rate
	}

	out := make([]model.BookingExtraAmenity, 0, len(requested))
	total := 0.0
	for _, req := range requested {
		rate, ok := rates[req.Name]
		if !ok {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown extra amenity: %s", req.Name))
		}
		if req.Quantity <= 0 {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Extra amenity %s requires a positive quantity", req.Name))
		}
		line := model.BookingExtraAmenity{
			Name:     req.Name,
			Rate:     rate,
			Quantity: req.Quantity,
			Total:    Round2(rate * req.Quantity),
		}
		total = Round2(total + line.Total)
		out = append(out, line)
	}

	return out, total, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
