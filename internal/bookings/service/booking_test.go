package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"expostall/internal/bookings/validator"
	"expostall/pkg/config"
	mongotx "expostall/pkg/db/mongo"
	apperrors "expostall/pkg/errors"
	"expostall/pkg/logger"
	"expostall/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
}

const (
	testExhibitionID = "507f1f77bcf86cd799439011"
	testStallTypeID  = "507f1f77bcf86cd799439012"
	testBookingID    = "507f1f77bcf86cd799439013"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc   func(ctx context.Context, booking *model.Booking) error
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
	updateFunc   func(ctx context.Context, id string, fields bson.M) error
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByExhibition(ctx context.Context, exhibitionID string, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) CountByExhibition(ctx context.Context, exhibitionID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, fields bson.M) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLayoutRepository struct {
	findFunc      func(ctx context.Context, exhibitionID string) (*model.Layout, error)
	setStatusFunc func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error
}

func (m *mockLayoutRepository) FindByExhibitionID(ctx context.Context, exhibitionID string) (*model.Layout, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, exhibitionID)
	}
	return nil, nil
}

func (m *mockLayoutRepository) SetStallStatus(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, exhibitionID, stallIDs, status)
	}
	return nil
}

type mockCounterRepository struct {
	nextFunc func(ctx context.Context, exhibitionID string, year int) (int64, error)
}

func (m *mockCounterRepository) Next(ctx context.Context, exhibitionID string, year int) (int64, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, exhibitionID, year)
	}
	return 1, nil
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockExhibitionReader struct {
	findFunc func(ctx context.Context, id string) (*model.Exhibition, error)
}

func (m *mockExhibitionReader) FindByID(ctx context.Context, id string) (*model.Exhibition, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, id)
	}
	return nil, nil
}

type mockStallTypeReader struct {
	findFunc func(ctx context.Context, ids []string) (map[string]*model.StallType, error)
}

func (m *mockStallTypeReader) FindByIDs(ctx context.Context, ids []string) (map[string]*model.StallType, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, ids)
	}
	return map[string]*model.StallType{}, nil
}

type mockEventPublisher struct {
	created       []*model.Booking
	statusChanges []string
}

func (m *mockEventPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	m.created = append(m.created, booking)
}

func (m *mockEventPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking, fromStatus, reason, actor string) {
	m.statusChanges = append(m.statusChanges, fromStatus+"->"+booking.Status)
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func testConfig() *config.Config {
	return &config.Config{
		ExhibitionLockTTL: 10 * time.Second,
	}
}

func testExhibition() *model.Exhibition {
	return &model.Exhibition{
		ID:       testExhibitionID,
		Name:     "Spring Trade Fair",
		Slug:     "spring-trade-fair",
		Status:   model.ExhibitionPublished,
		IsActive: true,
		DiscountConfig: []model.DiscountOption{
			{Name: "partner", Type: model.DiscountPercentage, Value: 20, IsActive: true},
		},
		PublicDiscountConfig: []model.DiscountOption{
			{Name: "early-bird", Type: model.DiscountPercentage, Value: 10, IsActive: true},
			{Name: "expired", Type: model.DiscountFixed, Value: 100, IsActive: false},
		},
		InvoicePrefix: "EXPO",
	}
}

func testLayout() *model.Layout {
	return &model.Layout{
		ExhibitionID: testExhibitionID,
		Spaces: []model.Space{
			{
				ID:   "space-1",
				Name: "Main Arena",
				Halls: []model.Hall{
					{
						ID:   "hall-1",
						Name: "Hall A",
						Stalls: []model.Stall{
							{
								ID:          "stall-1",
								Number:      "A-01",
								Shape:       model.ShapeRectangle,
								Size:        model.PixelSize{Width: 250, Height: 200},
								StallTypeID: testStallTypeID,
								RatePerSqm:  100,
								Status:      model.StallAvailable,
							},
							{
								ID:          "stall-2",
								Number:      "A-02",
								Shape:       model.ShapeRectangle,
								Size:        model.PixelSize{Width: 150, Height: 150},
								StallTypeID: testStallTypeID,
								RatePerSqm:  120,
								Status:      model.StallAvailable,
							},
						},
					},
				},
			},
		},
	}
}

func testCreateRequest() *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		ExhibitionID:  testExhibitionID,
		StallIDs:      []string{"stall-1", "stall-2"},
		CustomerName:  "Asha Traders",
		CustomerPhone: "+919812345678",
		BookingSource: model.SourcePublic,
		Calculations:  model.ClientCalculations{TotalBaseAmount: 3080.00},
	}
}

type serviceMocks struct {
	repo        *mockBookingRepository
	layoutRepo  *mockLayoutRepository
	counterRepo *mockCounterRepository
	lockRepo    *mockLockRepository
	exhibitions *mockExhibitionReader
	stallTypes  *mockStallTypeReader
	events      *mockEventPublisher
}

func newTestService(m *serviceMocks) BookingService {
	if m.repo == nil {
		m.repo = &mockBookingRepository{}
	}
	if m.layoutRepo == nil {
		m.layoutRepo = &mockLayoutRepository{}
	}
	if m.counterRepo == nil {
		m.counterRepo = &mockCounterRepository{}
	}
	if m.lockRepo == nil {
		m.lockRepo = &mockLockRepository{}
	}
	if m.exhibitions == nil {
		m.exhibitions = &mockExhibitionReader{
			findFunc: func(ctx context.Context, id string) (*model.Exhibition, error) {
				return testExhibition(), nil
			},
		}
	}
	if m.stallTypes == nil {
		m.stallTypes = &mockStallTypeReader{}
	}
	if m.events == nil {
		m.events = &mockEventPublisher{}
	}

	log := testLogger()
	return NewBookingService(
		m.repo,
		m.layoutRepo,
		m.counterRepo,
		m.lockRepo,
		m.exhibitions,
		m.stallTypes,
		validator.NewBookingValidator(log),
		m.events,
		testConfig(),
		log,
	)
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_PublicBookingReservesStalls(t *testing.T) {
	var lockedID, releasedID string
	var flippedStatus string
	var flippedStalls []string

	mocks := &serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flippedStalls = stallIDs
				flippedStatus = status
				return nil
			},
		},
		counterRepo: &mockCounterRepository{
			nextFunc: func(ctx context.Context, exhibitionID string, year int) (int64, error) {
				return 7, nil
			},
		},
		lockRepo: &mockLockRepository{
			createFunc: func(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error) {
				lockedID = lock.ID
				return lock, nil
			},
			deleteFunc: func(ctx context.Context, lockID string) error {
				releasedID = lockID
				return nil
			},
		},
		events: &mockEventPublisher{},
	}
	svc := newTestService(mocks)

	booking, err := svc.Create(context.Background(), testCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("Status = %q, want pending", booking.Status)
	}
	if booking.PaymentStatus != model.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", booking.PaymentStatus)
	}
	if booking.Calculations.TotalBaseAmount != 3080.00 {
		t.Errorf("TotalBaseAmount = %v, want 3080.00", booking.Calculations.TotalBaseAmount)
	}

	wantInvoice := FormatInvoiceNumber("EXPO", time.Now().Year(), 7)
	if booking.InvoiceNumber != wantInvoice {
		t.Errorf("InvoiceNumber = %q, want %q", booking.InvoiceNumber, wantInvoice)
	}

	if flippedStatus != model.StallReserved {
		t.Errorf("stall status = %q, want reserved", flippedStatus)
	}
	if len(flippedStalls) != 2 {
		t.Errorf("flipped %d stalls, want 2", len(flippedStalls))
	}

	wantLock := "exhibition_lock_" + testExhibitionID
	if lockedID != wantLock {
		t.Errorf("lock id = %q, want %q", lockedID, wantLock)
	}
	if releasedID != wantLock {
		t.Errorf("released lock id = %q, want %q", releasedID, wantLock)
	}

	if len(mocks.events.created) != 1 {
		t.Errorf("expected 1 created event, got %d", len(mocks.events.created))
	}
}

func TestCreate_AdminBookingConfirmsAndBooksStalls(t *testing.T) {
	var flippedStatus string

	mocks := &serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flippedStatus = status
				return nil
			},
		},
	}
	svc := newTestService(mocks)

	req := testCreateRequest()
	req.BookingSource = model.SourceAdmin

	booking, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingConfirmed {
		t.Errorf("Status = %q, want confirmed", booking.Status)
	}
	if flippedStatus != model.StallBooked {
		t.Errorf("stall status = %q, want booked", flippedStatus)
	}
}

func TestCreate_TamperedTotalRejected(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
	})

	req := testCreateRequest()
	req.Calculations.TotalBaseAmount = 3000.00

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected mismatch error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestCreate_UnavailableStallRejected(t *testing.T) {
	layout := testLayout()
	layout.Spaces[0].Halls[0].Stalls[1].Status = model.StallBooked

	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return layout, nil
			},
		},
	})

	_, err := svc.Create(context.Background(), testCreateRequest())
	if err == nil {
		t.Fatal("expected error for booked stall, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestCreate_UnknownStallRejected(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
	})

	req := testCreateRequest()
	req.StallIDs = []string{"stall-1", "no-such-stall"}

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for unknown stall, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreate_UnpublishedExhibitionRejected(t *testing.T) {
	exhibition := testExhibition()
	exhibition.Status = model.ExhibitionDraft

	svc := newTestService(&serviceMocks{
		exhibitions: &mockExhibitionReader{
			findFunc: func(ctx context.Context, id string) (*model.Exhibition, error) {
				return exhibition, nil
			},
		},
	})

	_, err := svc.Create(context.Background(), testCreateRequest())
	if err == nil {
		t.Fatal("expected error for draft exhibition, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestCreate_PublicSourceCannotUseAdminDiscount(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
	})

	req := testCreateRequest()
	req.DiscountName = "partner" // admin-only list

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for admin-only discount, got nil")
	}
}

func TestCreate_InactiveDiscountRejected(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
	})

	req := testCreateRequest()
	req.DiscountName = "expired"

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for inactive discount, got nil")
	}
}

func TestCreate_PublicDiscountApplied(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
	})

	req := testCreateRequest()
	req.DiscountName = "early-bird"

	booking, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Calculations.TotalDiscountAmount != 308.00 {
		t.Errorf("TotalDiscountAmount = %v, want 308.00", booking.Calculations.TotalDiscountAmount)
	}
	if booking.Calculations.TotalAmountAfterDiscount != 2772.00 {
		t.Errorf("TotalAmountAfterDiscount = %v, want 2772.00", booking.Calculations.TotalAmountAfterDiscount)
	}
}

func TestCreate_LockConflict(t *testing.T) {
	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return testLayout(), nil
			},
		},
		lockRepo: &mockLockRepository{
			createFunc: func(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error) {
				return nil, duplicateKeyError()
			},
		},
	})

	_, err := svc.Create(context.Background(), testCreateRequest())
	if err == nil {
		t.Fatal("expected lock conflict error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreate_AvailabilityCheckedUnderLock(t *testing.T) {
	// The layout read feeding the availability check must sit between
	// lock acquire and release; outside the lock the check acts on a
	// stale snapshot.
	var events []string

	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				events = append(events, "layout-read")
				return testLayout(), nil
			},
		},
		lockRepo: &mockLockRepository{
			createFunc: func(ctx context.Context, lock *model.ExhibitionLock) (*model.ExhibitionLock, error) {
				events = append(events, "lock-acquire")
				return lock, nil
			},
			deleteFunc: func(ctx context.Context, lockID string) error {
				events = append(events, "lock-release")
				return nil
			},
		},
	})

	if _, err := svc.Create(context.Background(), testCreateRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"lock-acquire", "layout-read", "lock-release"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestCreate_SecondBookingForSameStallRejected(t *testing.T) {
	// Shared layout state: the first create flips stall statuses, the
	// second create's locked read sees the flip and refuses.
	layout := testLayout()

	svc := newTestService(&serviceMocks{
		layoutRepo: &mockLayoutRepository{
			findFunc: func(ctx context.Context, exhibitionID string) (*model.Layout, error) {
				return layout, nil
			},
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				held := make(map[string]bool, len(stallIDs))
				for _, id := range stallIDs {
					held[id] = true
				}
				layout.Walk(func(st *model.Stall) {
					if held[st.ID] {
						st.Status = status
					}
				})
				return nil
			},
		},
	})

	first := testCreateRequest()
	first.StallIDs = []string{"stall-1"}
	first.Calculations.TotalBaseAmount = 2000.00

	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error on first booking: %v", err)
	}

	second := testCreateRequest()
	second.StallIDs = []string{"stall-1"}
	second.Calculations.TotalBaseAmount = 2000.00
	second.CustomerName = "Bharat Exports"

	_, err := svc.Create(context.Background(), second)
	if err == nil {
		t.Fatal("expected second booking for the same stall to fail, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&serviceMocks{})

	req := testCreateRequest()
	req.CustomerName = ""

	_, err := svc.Create(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Status transitions
// ────────────────────────────────────────────────

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:            testBookingID,
		ExhibitionID:  testExhibitionID,
		StallIDs:      []string{"stall-1", "stall-2"},
		CustomerName:  "Asha Traders",
		CustomerPhone: "+919812345678",
		Status:        model.BookingPending,
		PaymentStatus: model.PaymentPending,
		BookingSource: model.SourcePublic,
		InvoiceNumber: "EXPO/2026/0007",
	}
}

func TestUpdateStatus_ConfirmBooksStalls(t *testing.T) {
	var flippedStatus string
	var updatedFields bson.M

	mocks := &serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return pendingBooking(), nil
			},
			updateFunc: func(ctx context.Context, id string, fields bson.M) error {
				updatedFields = fields
				return nil
			},
		},
		layoutRepo: &mockLayoutRepository{
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flippedStatus = status
				return nil
			},
		},
		events: &mockEventPublisher{},
	}
	svc := newTestService(mocks)

	booking, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingConfirmed {
		t.Errorf("Status = %q, want confirmed", booking.Status)
	}
	if flippedStatus != model.StallBooked {
		t.Errorf("stall status = %q, want booked", flippedStatus)
	}
	if updatedFields["status"] != model.BookingConfirmed {
		t.Errorf("persisted status = %v, want confirmed", updatedFields["status"])
	}
	if len(mocks.events.statusChanges) != 1 || mocks.events.statusChanges[0] != "pending->confirmed" {
		t.Errorf("status change events = %v", mocks.events.statusChanges)
	}
}

func TestUpdateStatus_CancelFreesStallsAndRecordsReason(t *testing.T) {
	var flippedStatus string
	var updatedFields bson.M

	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				b := pendingBooking()
				b.Status = model.BookingConfirmed
				return b, nil
			},
			updateFunc: func(ctx context.Context, id string, fields bson.M) error {
				updatedFields = fields
				return nil
			},
		},
		layoutRepo: &mockLayoutRepository{
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flippedStatus = status
				return nil
			},
		},
	})

	booking, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingCancelled,
		Reason: "customer withdrew",
		Actor:  "ops",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flippedStatus != model.StallAvailable {
		t.Errorf("stall status = %q, want available", flippedStatus)
	}
	if updatedFields["cancellation_reason"] != "customer withdrew" {
		t.Errorf("cancellation_reason = %v", updatedFields["cancellation_reason"])
	}
	if booking.CancellationReason != "customer withdrew" {
		t.Errorf("CancellationReason = %q", booking.CancellationReason)
	}
	if booking.CancelledAt == nil {
		t.Error("CancelledAt not set")
	}
}

func TestUpdateStatus_CancelWithoutReasonRejected(t *testing.T) {
	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return pendingBooking(), nil
			},
		},
	})

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingCancelled,
	})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "reason") {
		t.Errorf("error should mention the missing reason, got %v", err)
	}
}

func TestUpdateStatus_ApproveLeavesStallsAlone(t *testing.T) {
	flipped := false

	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return pendingBooking(), nil
			},
		},
		layoutRepo: &mockLayoutRepository{
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flipped = true
				return nil
			},
		},
	})

	booking, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingApproved,
		Actor:  "manager",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flipped {
		t.Error("approval must not touch stall statuses")
	}
	if booking.ApprovedBy != "manager" {
		t.Errorf("ApprovedBy = %q, want manager", booking.ApprovedBy)
	}
	if booking.ApprovedAt == nil {
		t.Error("ApprovedAt not set")
	}
}

func TestUpdateStatus_InvalidTransitionRejected(t *testing.T) {
	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				b := pendingBooking()
				b.Status = model.BookingCancelled
				return b, nil
			},
		},
	})

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingConfirmed,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestUpdateStatus_RereadsBookingUnderLock(t *testing.T) {
	// The booking is cancelled between the first read and lock
	// acquisition; the transition check must see the cancelled state.
	reads := 0
	updated := false

	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				reads++
				b := pendingBooking()
				if reads > 1 {
					b.Status = model.BookingCancelled
				}
				return b, nil
			},
			updateFunc: func(ctx context.Context, id string, fields bson.M) error {
				updated = true
				return nil
			},
		},
	})

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.BookingStatusUpdate{
		Status: model.BookingConfirmed,
	})
	if err == nil {
		t.Fatal("expected error for a booking cancelled in the meantime, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
	if reads < 2 {
		t.Errorf("booking read %d time(s), want a re-read under the lock", reads)
	}
	if updated {
		t.Error("booking must not be updated after the re-read rejects the transition")
	}
}

// ────────────────────────────────────────────────
// Delete
// ────────────────────────────────────────────────

func TestDelete_FreesHeldStalls(t *testing.T) {
	var flippedStatus string
	deleted := false

	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return pendingBooking(), nil
			},
			deleteFunc: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		},
		layoutRepo: &mockLayoutRepository{
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flippedStatus = status
				return nil
			},
		},
	})

	if err := svc.Delete(context.Background(), testBookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flippedStatus != model.StallAvailable {
		t.Errorf("stall status = %q, want available", flippedStatus)
	}
	if !deleted {
		t.Error("booking not deleted")
	}
}

func TestDelete_CancelledBookingSkipsStallFlip(t *testing.T) {
	flipped := false

	svc := newTestService(&serviceMocks{
		repo: &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				b := pendingBooking()
				b.Status = model.BookingCancelled
				return b, nil
			},
		},
		layoutRepo: &mockLayoutRepository{
			setStatusFunc: func(ctx context.Context, exhibitionID string, stallIDs []string, status string) error {
				flipped = true
				return nil
			},
		},
	})

	if err := svc.Delete(context.Background(), testBookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flipped {
		t.Error("cancelled booking holds no stalls; nothing to free")
	}
}

// ────────────────────────────────────────────────
// Invoice numbers
// ────────────────────────────────────────────────

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		year   int
		seq    int64
		want   string
	}{
		{"with prefix", "EXPO", 2026, 7, "EXPO/2026/0007"},
		{"default prefix", "", 2026, 42, "INV/2026/0042"},
		{"wide sequence", "EXPO", 2026, 12345, "EXPO/2026/12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatInvoiceNumber(tt.prefix, tt.year, tt.seq); got != tt.want {
				t.Errorf("FormatInvoiceNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}
