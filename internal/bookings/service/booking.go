package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	bookingerrors "expostall/internal/bookings/errors"
	"expostall/internal/bookings/pricing"
	"expostall/internal/bookings/repository"
	"expostall/internal/bookings/validator"
	"expostall/pkg/config"
	apperrors "expostall/pkg/errors"
	"expostall/pkg/logger"
	"expostall/pkg/model"
	"expostall/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const exhibitionLockPrefix = "exhibition_lock_"

type BookingService interface {
	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByExhibition(ctx context.Context, exhibitionID string, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, update *model.PaymentStatusUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo        repository.BookingRepository
	layoutRepo  repository.LayoutRepository
	counterRepo repository.InvoiceCounterRepository
	lockRepo    repository.ExhibitionLockRepository
	exhibitions repository.ExhibitionReader
	stallTypes  repository.StallTypeReader
	validator   *validator.BookingValidator
	events      EventPublisher
	cfg         *config.Config
	logger      *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	layoutRepo repository.LayoutRepository,
	counterRepo repository.InvoiceCounterRepository,
	lockRepo repository.ExhibitionLockRepository,
	exhibitions repository.ExhibitionReader,
	stallTypes repository.StallTypeReader,
	bookingValidator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		repo:        repo,
		layoutRepo:  layoutRepo,
		counterRepo: counterRepo,
		lockRepo:    lockRepo,
		exhibitions: exhibitions,
		stallTypes:  stallTypes,
		validator:   bookingValidator,
		events:      events,
		cfg:         cfg,
		logger:      log,
	}
}

// Create prices and persists a booking. The invoice number allocation, the
// booking insert and the stall status flip happen inside one transaction,
// serialized per exhibition by an advisory lock.
func (s *bookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	s.sanitizeCreateRequest(req)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.logger.Warn("booking validation failed", "error", err)
		return nil, apperrors.Validation(err.Error(), nil)
	}

	exhibition, err := s.exhibitions.FindByID(ctx, req.ExhibitionID)
	if err != nil {
		if err == bookingerrors.ErrExhibitionNotFound || err == bookingerrors.ErrInvalidID {
			return nil, apperrors.NotFoundWithID("exhibition", req.ExhibitionID)
		}
		s.logger.Error("failed to fetch exhibition", "exhibition_id", req.ExhibitionID, "error", err)
		return nil, apperrors.Internal("failed to fetch exhibition", err)
	}

	if !exhibition.IsBookable() {
		return nil, apperrors.Forbidden("exhibition is not open for booking")
	}

	// The availability check below is a read-modify-write against the
	// layout; it must happen under the lock or a concurrent create can
	// act on a stale "available" status.
	lockID, err := s.acquireExhibitionLock(ctx, req.ExhibitionID)
	if err != nil {
		return nil, err
	}
	defer s.releaseExhibitionLock(ctx, lockID)

	layout, err := s.layoutRepo.FindByExhibitionID(ctx, req.ExhibitionID)
	if err != nil {
		if err == bookingerrors.ErrLayoutNotFound {
			return nil, apperrors.NotFoundWithID("layout", req.ExhibitionID)
		}
		s.logger.Error("failed to fetch layout", "exhibition_id", req.ExhibitionID, "error", err)
		return nil, apperrors.Internal("failed to fetch layout", err)
	}

	stalls, err := s.resolveStalls(layout, req.StallIDs)
	if err != nil {
		return nil, err
	}

	stallTypeIDs := make([]string, 0, len(stalls))
	seen := make(map[string]bool, len(stalls))
	for _, stall := range stalls {
		if stall.StallTypeID != "" && !seen[stall.StallTypeID] {
			seen[stall.StallTypeID] = true
			stallTypeIDs = append(stallTypeIDs, stall.StallTypeID)
		}
	}

	stallTypeMap, err := s.stallTypes.FindByIDs(ctx, stallTypeIDs)
	if err != nil {
		s.logger.Error("failed to fetch stall types", "error", err)
		return nil, apperrors.Internal("failed to fetch stall types", err)
	}

	discount, err := resolveDiscount(exhibition, req.DiscountName, req.BookingSource)
	if err != nil {
		return nil, err
	}

	priced, err := pricing.Price(pricing.Input{
		Exhibition:            exhibition,
		Stalls:                stalls,
		StallTypes:            stallTypeMap,
		Discount:              discount,
		ExtraAmenities:        req.ExtraAmenities,
		ClientTotalBaseAmount: req.Calculations.TotalBaseAmount,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &model.Booking{
		ExhibitionID:    req.ExhibitionID,
		StallIDs:        req.StallIDs,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CompanyName:     req.CompanyName,
		CustomerTaxID:   req.CustomerTaxID,
		CustomerAddress: req.CustomerAddress,
		Amount:          priced.TotalAmount,
		BasicAmenities:  priced.BasicAmenities,
		ExtraAmenities:  priced.ExtraAmenities,
		Calculations:    priced.Calculations,
		Status:          initialStatusFor(req.BookingSource),
		PaymentStatus:   model.PaymentPending,
		BookingSource:   req.BookingSource,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stallStatus, _ := stallStatusFor(booking.Status)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		seq, err := s.counterRepo.Next(sessCtx, req.ExhibitionID, repository.Year(now))
		if err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		booking.InvoiceNumber = FormatInvoiceNumber(exhibition.InvoicePrefix, repository.Year(now), seq)

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := s.layoutRepo.SetStallStatus(sessCtx, req.ExhibitionID, req.StallIDs, stallStatus); err != nil {
			return fmt.Errorf("failed to update stall status: %w", err)
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.logger.Error("booking transaction failed", "exhibition_id", req.ExhibitionID, "error", err)
		return nil, apperrors.Internal("failed to create booking", err)
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"exhibition_id", booking.ExhibitionID,
		"invoice_number", booking.InvoiceNumber,
		"stall_count", len(booking.StallIDs),
		"total_amount", booking.Calculations.TotalAmount)

	s.events.BookingCreated(ctx, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		s.logger.Error("failed to list bookings", "error", findErr)
		return nil, 0, apperrors.Internal("failed to list bookings", findErr)
	}
	if countErr != nil {
		s.logger.Error("failed to count bookings", "error", countErr)
		return nil, 0, apperrors.Internal("failed to count bookings", countErr)
	}

	return bookings, total, nil
}

func (s *bookingService) GetByExhibition(ctx context.Context, exhibitionID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindByExhibition(ctx, exhibitionID, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountByExhibition(ctx, exhibitionID)
	}()
	wg.Wait()

	if findErr != nil {
		if findErr == bookingerrors.ErrInvalidID {
			return nil, 0, apperrors.InvalidInput("invalid exhibition ID format")
		}
		s.logger.Error("failed to list bookings", "exhibition_id", exhibitionID, "error", findErr)
		return nil, 0, apperrors.Internal("failed to list bookings", findErr)
	}
	if countErr != nil {
		s.logger.Error("failed to count bookings", "exhibition_id", exhibitionID, "error", countErr)
		return nil, 0, apperrors.Internal("failed to count bookings", countErr)
	}

	return bookings, total, nil
}

// UpdateStatus applies a lifecycle transition and keeps the layout's stall
// statuses consistent with the booking's new state.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	update.Reason = sanitizer.SanitizeFreeText(update.Reason)
	update.Actor = sanitizer.SanitizeName(update.Actor)

	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, id)
	}

	lockID, err := s.acquireExhibitionLock(ctx, booking.ExhibitionID)
	if err != nil {
		return nil, err
	}
	defer s.releaseExhibitionLock(ctx, lockID)

	// Re-read under the lock; the status may have moved between the
	// first read and lock acquisition.
	booking, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, id)
	}

	if !CanTransition(booking.Status, update.Status) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, update.Status))
	}

	now := time.Now()
	fields := bson.M{
		"status":     update.Status,
		"updated_at": now,
	}
	switch update.Status {
	case model.BookingCancelled:
		fields["cancellation_reason"] = update.Reason
		fields["cancelled_by"] = update.Actor
		fields["cancelled_at"] = now
	case model.BookingRejected:
		fields["rejection_reason"] = update.Reason
	case model.BookingApproved:
		fields["approved_by"] = update.Actor
		fields["approved_at"] = now
	}

	stallStatus, flipStalls := stallStatusFor(update.Status)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Update(sessCtx, id, fields); err != nil {
			return err
		}
		if flipStalls {
			if err := s.layoutRepo.SetStallStatus(sessCtx, booking.ExhibitionID, booking.StallIDs, stallStatus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.logger.Error("status update transaction failed", "booking_id", id, "error", err)
		return nil, apperrors.Internal("failed to update booking status", err)
	}

	fromStatus := booking.Status
	booking.Status = update.Status
	booking.UpdatedAt = now
	switch update.Status {
	case model.BookingCancelled:
		booking.CancellationReason = update.Reason
		booking.CancelledBy = update.Actor
		booking.CancelledAt = &now
	case model.BookingRejected:
		booking.RejectionReason = update.Reason
	case model.BookingApproved:
		booking.ApprovedBy = update.Actor
		booking.ApprovedAt = &now
	}

	s.logger.Info("booking status updated",
		"booking_id", id,
		"from", fromStatus,
		"to", update.Status)

	s.events.BookingStatusChanged(ctx, booking, fromStatus, update.Reason, update.Actor)

	return booking, nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, id string, update *model.PaymentStatusUpdate) (*model.Booking, error) {
	if err := s.validator.ValidatePaymentUpdate(update); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, id)
	}

	now := time.Now()
	err = s.repo.Update(ctx, id, bson.M{
		"payment_status": update.PaymentStatus,
		"updated_at":     now,
	})
	if err != nil {
		return nil, translateLookupError(err, id)
	}

	booking.PaymentStatus = update.PaymentStatus
	booking.UpdatedAt = now

	s.logger.Info("booking payment status updated",
		"booking_id", id,
		"payment_status", update.PaymentStatus)

	return booking, nil
}

// Delete removes a booking and frees its stalls when the booking still
// holds them.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translateLookupError(err, id)
	}

	lockID, err := s.acquireExhibitionLock(ctx, booking.ExhibitionID)
	if err != nil {
		return err
	}
	defer s.releaseExhibitionLock(ctx, lockID)

	// Re-read under the lock so a status change that landed in between
	// cannot leave stalls held or freed twice.
	booking, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return translateLookupError(err, id)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if holdsStalls(booking.Status) {
			if err := s.layoutRepo.SetStallStatus(sessCtx, booking.ExhibitionID, booking.StallIDs, model.StallAvailable); err != nil {
				return err
			}
		}
		return s.repo.Delete(sessCtx, id)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.logger.Error("booking delete transaction failed", "booking_id", id, "error", err)
		return apperrors.Internal("failed to delete booking", err)
	}

	s.logger.Info("booking deleted", "booking_id", id, "exhibition_id", booking.ExhibitionID)

	return nil
}

func (s *bookingService) sanitizeCreateRequest(req *model.CreateBookingRequest) {
	req.ExhibitionID = strings.TrimSpace(req.ExhibitionID)
	req.StallIDs = sanitizer.SanitizeIDs(req.StallIDs)
	req.CustomerName = sanitizer.SanitizeName(req.CustomerName)
	req.CustomerPhone = sanitizer.SanitizePhone(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(strings.ToLower(req.CustomerEmail))
	req.CompanyName = sanitizer.SanitizeName(req.CompanyName)
	req.CustomerTaxID = strings.ToUpper(strings.TrimSpace(req.CustomerTaxID))
	req.CustomerAddress = sanitizer.SanitizeFreeText(req.CustomerAddress)
	req.DiscountName = strings.TrimSpace(req.DiscountName)
	for i := range req.ExtraAmenities {
		req.ExtraAmenities[i].Name = sanitizer.SanitizeName(req.ExtraAmenities[i].Name)
	}
}

// resolveStalls looks up each requested stall in the layout aggregate and
// verifies it is free.
func (s *bookingService) resolveStalls(layout *model.Layout, stallIDs []string) ([]*model.Stall, error) {
	stalls := make([]*model.Stall, 0, len(stallIDs))
	for _, id := range stallIDs {
		stall := layout.FindStall(id)
		if stall == nil {
			return nil, apperrors.NotFoundWithID("stall", id)
		}
		if stall.Status != model.StallAvailable {
			return nil, apperrors.InvalidInput(
				fmt.Sprintf("stall %s is not available (status: %s)", stall.Number, stall.Status))
		}
		stalls = append(stalls, stall)
	}
	return stalls, nil
}

func (s *bookingService) acquireExhibitionLock(ctx context.Context, exhibitionID string) (string, error) {
	lockID := exhibitionLockPrefix + exhibitionID
	_, err := s.lockRepo.Create(ctx, &model.ExhibitionLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.ExhibitionLockTTL),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("another booking operation is in progress for this exhibition, please retry")
		}
		s.logger.Error("failed to acquire exhibition lock", "exhibition_id", exhibitionID, "error", err)
		return "", apperrors.Internal("failed to acquire exhibition lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseExhibitionLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Delete(ctx, lockID); err != nil {
		// The TTL index reaps it eventually; bookings for this exhibition
		// stay blocked until then.
		s.logger.Error("failed to release exhibition lock", "lock_id", lockID, "error", err)
	}
}

// FormatInvoiceNumber renders an allocated sequence as the stored invoice
// number, e.g. EXPO/2026/0042.
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	if prefix == "" {
		prefix = "INV"
	}
	return fmt.Sprintf("%s/%d/%04d", prefix, year, seq)
}

func initialStatusFor(source string) string {
	if source == model.SourceAdmin {
		return model.BookingConfirmed
	}
	return model.BookingPending
}

// resolveDiscount matches the requested discount name against the
// exhibition's configuration. Admin bookings draw from the full discount
// list; exhibitor and public bookings only see the public list.
func resolveDiscount(exhibition *model.Exhibition, name, source string) (*model.DiscountOption, error) {
	if name == "" {
		return nil, nil
	}

	options := exhibition.PublicDiscountConfig
	if source == model.SourceAdmin {
		options = exhibition.DiscountConfig
	}

	for i := range options {
		if options[i].Name == name {
			if !options[i].IsActive {
				return nil, apperrors.InvalidInput(fmt.Sprintf("discount %q is not active", name))
			}
			return &options[i], nil
		}
	}

	return nil, apperrors.InvalidInput(fmt.Sprintf("unknown discount %q", name))
}

func translateLookupError(err error, id string) error {
	switch err {
	case bookingerrors.ErrNotFound:
		return apperrors.NotFoundWithID("booking", id)
	case bookingerrors.ErrInvalidID:
		return apperrors.InvalidInput("invalid booking ID format")
	default:
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("booking lookup failed", err)
	}
}
