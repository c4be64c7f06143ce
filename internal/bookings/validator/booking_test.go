package validator

import (
	"strings"
	"testing"

	"expostall/pkg/logger"
	"expostall/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validCreateRequest() *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		ExhibitionID:  "507f1f77bcf86cd799439011",
		StallIDs:      []string{"stall-1"},
		CustomerName:  "Asha Traders",
		CustomerPhone: "+919812345678",
		BookingSource: model.SourcePublic,
		Calculations:  model.ClientCalculations{TotalBaseAmount: 2000},
	}
}

// ────────────────────────────────────────────────
// ValidateCreate
// ────────────────────────────────────────────────

func TestValidateCreate_Valid(t *testing.T) {
	v := newTestValidator()
	if err := v.ValidateCreate(validCreateRequest()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCreate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *model.CreateBookingRequest)
		wantMsg string
	}{
		{
			name:    "missing exhibition id",
			mutate:  func(req *model.CreateBookingRequest) { req.ExhibitionID = "" },
			wantMsg: "ExhibitionID is required",
		},
		{
			name:    "malformed exhibition id",
			mutate:  func(req *model.CreateBookingRequest) { req.ExhibitionID = "not-an-object-id" },
			wantMsg: "ExhibitionID must be a valid MongoDB ObjectID",
		},
		{
			name:    "no stalls",
			mutate:  func(req *model.CreateBookingRequest) { req.StallIDs = nil },
			wantMsg: "StallIDs is required",
		},
		{
			name: "duplicate stalls",
			mutate: func(req *model.CreateBookingRequest) {
				req.StallIDs = []string{"stall-1", "stall-1"}
			},
			wantMsg: "StallIDs must not contain duplicates",
		},
		{
			name:    "short customer name",
			mutate:  func(req *model.CreateBookingRequest) { req.CustomerName = "A" },
			wantMsg: "CustomerName must be at least 2",
		},
		{
			name:    "missing phone",
			mutate:  func(req *model.CreateBookingRequest) { req.CustomerPhone = "" },
			wantMsg: "CustomerPhone is required",
		},
		{
			name:    "bad email",
			mutate:  func(req *model.CreateBookingRequest) { req.CustomerEmail = "not-an-email" },
			wantMsg: "CustomerEmail must be a valid email address",
		},
		{
			name:    "unknown booking source",
			mutate:  func(req *model.CreateBookingRequest) { req.BookingSource = "walk-in" },
			wantMsg: "BookingSource must be one of",
		},
		{
			name: "negative client total",
			mutate: func(req *model.CreateBookingRequest) {
				req.Calculations.TotalBaseAmount = -1
			},
			wantMsg: "TotalBaseAmount must be at least 0",
		},
		{
			name: "extra amenity without quantity",
			mutate: func(req *model.CreateBookingRequest) {
				req.ExtraAmenities = []model.BookingExtraAmenity{
					{Name: "power", Rate: 250, Quantity: 0},
				}
			},
			wantMsg: "Quantity must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator()
			req := validCreateRequest()
			tt.mutate(req)

			err := v.ValidateCreate(req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// ────────────────────────────────────────────────
// ValidateStatusUpdate
// ────────────────────────────────────────────────

func TestValidateStatusUpdate(t *testing.T) {
	tests := []struct {
		name    string
		update  *model.BookingStatusUpdate
		wantErr bool
		wantMsg string
	}{
		{
			name:   "confirm without reason",
			update: &model.BookingStatusUpdate{Status: model.BookingConfirmed},
		},
		{
			name: "cancel with reason",
			update: &model.BookingStatusUpdate{
				Status: model.BookingCancelled,
				Reason: "customer withdrew",
			},
		},
		{
			name:    "cancel without reason",
			update:  &model.BookingStatusUpdate{Status: model.BookingCancelled},
			wantErr: true,
			wantMsg: "a cancellation reason is required",
		},
		{
			name: "cancel with blank reason",
			update: &model.BookingStatusUpdate{
				Status: model.BookingCancelled,
				Reason: "   ",
			},
			wantErr: true,
			wantMsg: "a cancellation reason is required",
		},
		{
			name:    "reject without reason",
			update:  &model.BookingStatusUpdate{Status: model.BookingRejected},
			wantErr: true,
			wantMsg: "a rejection reason is required",
		},
		{
			name:    "missing status",
			update:  &model.BookingStatusUpdate{},
			wantErr: true,
			wantMsg: "Status is required",
		},
		{
			name:    "unknown status",
			update:  &model.BookingStatusUpdate{Status: "archived"},
			wantErr: true,
			wantMsg: "Status must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator()

			err := v.ValidateStatusUpdate(tt.update)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// ValidatePaymentUpdate
// ────────────────────────────────────────────────

func TestValidatePaymentUpdate(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidatePaymentUpdate(&model.PaymentStatusUpdate{PaymentStatus: model.PaymentPaid}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := v.ValidatePaymentUpdate(&model.PaymentStatusUpdate{PaymentStatus: "overdue"})
	if err == nil {
		t.Fatal("expected error for unknown payment status, got nil")
	}
	if !strings.Contains(err.Error(), "PaymentStatus must be one of") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "CustomerName", Message: "CustomerName is required"},
		{Field: "StallIDs", Message: "StallIDs is required"},
	}

	got := errs.Error()
	want := "validation failed: 2 error(s): [CustomerName: CustomerName is required; StallIDs: StallIDs is required]"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should render as empty string")
	}
}
